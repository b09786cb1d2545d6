package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/twofish/pkg/engine"
	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/io"
	"github.com/matzehuels/twofish/pkg/pipeline"
	"github.com/matzehuels/twofish/pkg/scene"
)

// =============================================================================
// Request Bodies
// =============================================================================

type sceneRequest struct {
	Scene json.RawMessage `json:"scene"`
}

type relayoutRequest struct {
	sceneRequest
	IndexChanged *int `json:"indexChanged"`
}

type applyRequest struct {
	sceneRequest
	Relation json.RawMessage `json:"relation"`
}

type editRequest struct {
	sceneRequest
	ID   string     `json:"id"`
	Edit paramsEdit `json:"edit"`
}

type paramsEdit struct {
	Alignment    *string  `json:"alignment"`
	Direction    *string  `json:"direction"`
	Spacing      *float64 `json:"spacing"`
	InferSpacing bool     `json:"inferSpacing"`
	Padding      *float64 `json:"padding"`
	AlignX       *float64 `json:"alignX"`
	AlignY       *float64 `json:"alignY"`
}

type resizeRequest struct {
	sceneRequest
	ID   string `json:"id"`
	BBox struct {
		X      *float64 `json:"x"`
		Y      *float64 `json:"y"`
		Width  *float64 `json:"width"`
		Height *float64 `json:"height"`
	} `json:"bbox"`
}

type moveRequest struct {
	sceneRequest
	ID    string   `json:"id"`
	Axis  string   `json:"axis"`
	Value *float64 `json:"value"`
}

type detachRequest struct {
	sceneRequest
	RelationID string `json:"relationId"`
	ChildID    string `json:"childId"`
}

type deleteRequest struct {
	sceneRequest
	ID string `json:"id"`
}

type renderRequest struct {
	sceneRequest
	pipeline.RenderOptions
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRelayout(w http.ResponseWriter, r *http.Request) {
	var req relayoutRequest
	sc, ok := s.decode(w, r, &req, &req.sceneRequest)
	if !ok {
		return
	}
	idx := -1
	if req.IndexChanged != nil {
		idx = *req.IndexChanged
	}
	res, err := s.runner.Relayout(r.Context(), sc, idx)
	s.respond(w, res, err)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	sc, ok := s.decode(w, r, &req, &req.sceneRequest)
	if !ok {
		return
	}
	if len(req.Relation) == 0 {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "relation is required"))
		return
	}
	rel, err := io.UnmarshalNode(req.Relation)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.runner.Apply(r.Context(), sc, engine.Request{
		Kind:     rel.Kind,
		ID:       rel.ID,
		Children: rel.Children,
		Params:   rel.Params,
	})
	s.respond(w, res, err)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	sc, ok := s.decode(w, r, &req, &req.sceneRequest)
	if !ok {
		return
	}
	res, err := s.runner.EditParams(r.Context(), sc, req.ID, req.Edit.toEngine())
	s.respond(w, res, err)
}

func (e paramsEdit) toEngine() engine.ParamsEdit {
	var out engine.ParamsEdit
	if e.Alignment != nil {
		a := scene.Alignment(*e.Alignment)
		out.Alignment = &a
	}
	if e.Direction != nil {
		d := scene.Direction(*e.Direction)
		out.Direction = &d
	}
	switch {
	case e.InferSpacing:
		out.Spacing = &scene.Coord{}
	case e.Spacing != nil:
		c := scene.Some(*e.Spacing)
		out.Spacing = &c
	}
	out.Padding = e.Padding
	out.AlignX = e.AlignX
	out.AlignY = e.AlignY
	return out
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	sc, ok := s.decode(w, r, &req, &req.sceneRequest)
	if !ok {
		return
	}
	p := engine.Patch{
		X:      coord(req.BBox.X),
		Y:      coord(req.BBox.Y),
		Width:  coord(req.BBox.Width),
		Height: coord(req.BBox.Height),
	}
	res, err := s.runner.UpdateGeometry(r.Context(), sc, req.ID, p)
	s.respond(w, res, err)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	sc, ok := s.decode(w, r, &req, &req.sceneRequest)
	if !ok {
		return
	}
	axis, valid := scene.ParseAxis(req.Axis)
	if !valid {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "axis must be x or y, got %q", req.Axis))
		return
	}
	if req.Value == nil {
		writeError(w, errs.New(errs.ErrCodeInvalidNumeric, "value is required"))
		return
	}
	res, err := s.runner.MoveGroup(r.Context(), sc, req.ID, axis, *req.Value)
	s.respond(w, res, err)
}

func (s *Server) handleDetach(w http.ResponseWriter, r *http.Request) {
	var req detachRequest
	sc, ok := s.decode(w, r, &req, &req.sceneRequest)
	if !ok {
		return
	}
	res, err := s.runner.Detach(r.Context(), sc, req.RelationID, req.ChildID)
	s.respond(w, res, err)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	sc, ok := s.decode(w, r, &req, &req.sceneRequest)
	if !ok {
		return
	}
	res, err := s.runner.Delete(r.Context(), sc, req.ID)
	s.respond(w, res, err)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req sceneRequest
	sc, ok := s.decode(w, r, &req, &req)
	if !ok {
		return
	}
	if err := sc.Validate(); err != nil {
		writeJSON(w, http.StatusOK, validateResponse{Valid: false, Error: &errorBody{
			Code:    string(errs.ErrCodeInvalidInput),
			Message: err.Error(),
		}})
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: true, Nodes: sc.Len()})
}

type validateResponse struct {
	Valid bool       `json:"valid"`
	Nodes int        `json:"nodes,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	sc, ok := s.decode(w, r, &req, &req.sceneRequest)
	if !ok {
		return
	}
	opts := req.RenderOptions
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "render options"))
		return
	}
	out, err := s.runner.Render(r.Context(), sc, opts)
	if err != nil {
		s.logger.Error("render failed", "err", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(opts.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "image/svg+xml"
	}
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads the body into v and the scene embedded in sr. On failure
// the error response has been written and ok is false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, sr *sceneRequest) (*scene.Scene, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: errorBody{
				Code:    string(errs.ErrCodeInvalidInput),
				Message: "request body too large",
			}})
			return nil, false
		}
		writeError(w, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request"))
		return nil, false
	}
	if len(sr.Scene) == 0 {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "scene is required"))
		return nil, false
	}
	sc, err := io.UnmarshalScene(sr.Scene)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sc, true
}

func (s *Server) respond(w http.ResponseWriter, res engine.Result, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := io.MarshalResult(res)
	if err != nil {
		s.logger.Error("encode result", "err", err)
		writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "encode result"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func coord(p *float64) scene.Coord {
	if p == nil {
		return scene.Coord{}
	}
	return scene.Some(*p)
}

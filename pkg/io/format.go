package io

import (
	"errors"

	"github.com/matzehuels/twofish/pkg/engine"
	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/layout"
	"github.com/matzehuels/twofish/pkg/scene"
)

type document struct {
	Nodes []node `json:"nodes"`
}

type node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	BBox     bbox     `json:"bbox"`
	Owned    *owned   `json:"owned,omitempty"`
	Children []string `json:"childrenIds,omitempty"`
	Data     *params  `json:"data,omitempty"`
}

type bbox struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

type owned struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	XOwner string   `json:"xOwner,omitempty"`
	YOwner string   `json:"yOwner,omitempty"`
}

type params struct {
	Alignment string   `json:"alignment,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Spacing   *float64 `json:"spacing,omitempty"`
	Padding   float64  `json:"padding,omitempty"`
	AlignX    *float64 `json:"alignX,omitempty"`
	AlignY    *float64 `json:"alignY,omitempty"`
}

type position struct {
	ID     string   `json:"id"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

type diagnostic struct {
	Index      int    `json:"index"`
	RelationID string `json:"relationId"`
	Type       string `json:"type"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
}

type result struct {
	Nodes       []node       `json:"nodes"`
	Positions   []position   `json:"positionsToUpdate"`
	Removed     []string     `json:"removed,omitempty"`
	Diagnostics []diagnostic `json:"diagnostics,omitempty"`
}

func ptr(c scene.Coord) *float64 {
	if !c.Valid {
		return nil
	}
	v := c.Value
	return &v
}

func coord(p *float64) scene.Coord {
	if p == nil {
		return scene.Coord{}
	}
	return scene.Some(*p)
}

func encodeNode(n scene.Node) node {
	out := node{
		ID:   n.ID,
		Type: string(n.Kind),
		BBox: bbox{
			X:      ptr(n.BBox.X),
			Y:      ptr(n.BBox.Y),
			Width:  ptr(n.BBox.Width),
			Height: ptr(n.BBox.Height),
		},
		Children: n.Children,
	}
	if n.Owned.X.Held() || n.Owned.Y.Held() {
		o := &owned{XOwner: n.Owned.X.Owner, YOwner: n.Owned.Y.Owner}
		if n.Owned.X.Held() {
			o.X = ptr(scene.Some(n.Owned.X.Value))
		}
		if n.Owned.Y.Held() {
			o.Y = ptr(scene.Some(n.Owned.Y.Value))
		}
		out.Owned = o
	}
	if n.IsRelation() {
		p := n.Params
		out.Data = &params{
			Alignment: string(p.Alignment),
			Direction: string(p.Direction),
			Spacing:   ptr(p.Spacing),
			Padding:   p.Padding,
			AlignX:    ptr(p.AlignX),
			AlignY:    ptr(p.AlignY),
		}
	}
	return out
}

func decodeNode(n node) (scene.Node, error) {
	if err := errs.ValidateNodeID(n.ID); err != nil {
		return scene.Node{}, err
	}
	kind, ok := scene.ParseKind(n.Type)
	if !ok {
		return scene.Node{}, errs.New(errs.ErrCodeInvalidFormat, "node %s: unknown type %q", n.ID, n.Type)
	}
	out := scene.Node{
		ID:   n.ID,
		Kind: kind,
		BBox: scene.BBox{
			X:      coord(n.BBox.X),
			Y:      coord(n.BBox.Y),
			Width:  coord(n.BBox.Width),
			Height: coord(n.BBox.Height),
		},
		Children: n.Children,
	}
	if o := n.Owned; o != nil {
		if (o.X == nil) != (o.XOwner == "") || (o.Y == nil) != (o.YOwner == "") {
			return scene.Node{}, errs.New(errs.ErrCodeInvalidFormat, "node %s: owned coordinates and owners must be given together", n.ID)
		}
		if o.X != nil {
			out.Owned.X = scene.Claim{Owner: o.XOwner, Value: *o.X}
		}
		if o.Y != nil {
			out.Owned.Y = scene.Claim{Owner: o.YOwner, Value: *o.Y}
		}
	}
	if len(n.Children) > 0 && !kind.IsRelation() {
		return scene.Node{}, errs.New(errs.ErrCodeInvalidFormat, "node %s: %s nodes have no children", n.ID, kind)
	}
	if d := n.Data; d != nil {
		out.Params = scene.Params{
			Alignment: scene.Alignment(d.Alignment),
			Direction: scene.Direction(d.Direction),
			Spacing:   coord(d.Spacing),
			Padding:   d.Padding,
			AlignX:    coord(d.AlignX),
			AlignY:    coord(d.AlignY),
		}
	}
	return out, nil
}

func encodePositions(ps []layout.Position) []position {
	out := make([]position, len(ps))
	for i, p := range ps {
		out[i] = position{ID: p.ID, X: ptr(p.X), Y: ptr(p.Y), Width: ptr(p.Width), Height: ptr(p.Height)}
	}
	return out
}

func decodePositions(ps []position) []layout.Position {
	if len(ps) == 0 {
		return nil
	}
	out := make([]layout.Position, len(ps))
	for i, p := range ps {
		out[i] = layout.Position{ID: p.ID, X: coord(p.X), Y: coord(p.Y), Width: coord(p.Width), Height: coord(p.Height)}
	}
	return out
}

func encodeDiagnostics(ds []engine.Diagnostic) []diagnostic {
	var out []diagnostic
	for _, d := range ds {
		out = append(out, diagnostic{
			Index:      d.Index,
			RelationID: d.RelationID,
			Type:       string(d.Kind),
			Code:       string(errs.GetCode(d.Err)),
			Message:    message(d.Err),
		})
	}
	return out
}

func decodeDiagnostics(ds []diagnostic) []engine.Diagnostic {
	var out []engine.Diagnostic
	for _, d := range ds {
		code := errs.Code(d.Code)
		if code == "" {
			code = errs.ErrCodeInternal
		}
		out = append(out, engine.Diagnostic{
			Index:      d.Index,
			RelationID: d.RelationID,
			Kind:       scene.Kind(d.Type),
			Err:        errs.New(code, "%s", d.Message),
		})
	}
	return out
}

// message returns the message of a coded error without its code.
func message(err error) string {
	var e *errs.Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/twofish/pkg/engine"
	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/scene"
)

// Build replays a parsed script into a new scene.
func Build(sc *Script) (*scene.Scene, error) {
	s := &scene.Scene{}
	for _, st := range sc.Statements {
		var err error
		switch {
		case st.Shape != nil:
			s, err = buildShape(s, st.Shape)
		case st.Relation != nil:
			s, err = buildRelation(s, st.Relation)
		}
		if err != nil {
			return nil, atLine(st, err)
		}
	}
	return s, nil
}

// Read parses and builds a script from r.
func Read(r io.Reader) (*scene.Scene, error) {
	sc, err := Parse(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse script")
	}
	return Build(sc)
}

// ReadString parses and builds a script held in a string.
func ReadString(input string) (*scene.Scene, error) {
	return Read(strings.NewReader(input))
}

// ReadFile parses and builds the script at path.
func ReadFile(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func buildShape(s *scene.Scene, d *ShapeDecl) (*scene.Scene, error) {
	kind, ok := scene.ParseKind(capitalize(d.Kind))
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown shape %q", d.Kind)
	}
	var box scene.BBox
	for _, a := range d.Attrs {
		if a.Value == nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "%s %s: unexpected word %q", d.Kind, d.ID, a.Key)
		}
		v, err := errs.ParseFinite(a.Key, *a.Value)
		if err != nil {
			return nil, err
		}
		switch a.Key {
		case "x":
			box.X = scene.Some(v)
		case "y":
			box.Y = scene.Some(v)
		case "w", "width":
			box.Width = scene.Some(v)
		case "h", "height":
			box.Height = scene.Some(v)
		default:
			return nil, errs.New(errs.ErrCodeInvalidInput, "%s %s: unknown attribute %q", d.Kind, d.ID, a.Key)
		}
	}
	return engine.AddShape(s, scene.Node{ID: d.ID, Kind: kind, BBox: box})
}

func buildRelation(s *scene.Scene, d *RelationDecl) (*scene.Scene, error) {
	kind, ok := scene.ParseKind(capitalize(d.Kind))
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown relation %q", d.Kind)
	}
	var p scene.Params
	for _, a := range d.Attrs {
		if a.Value == nil {
			if err := setMode(kind, &p, a.Key); err != nil {
				return nil, err
			}
			continue
		}
		v, err := errs.ParseFinite(a.Key, *a.Value)
		if err != nil {
			return nil, err
		}
		switch a.Key {
		case "spacing":
			p.Spacing = scene.Some(v)
		case "padding":
			p.Padding = v
		case "x":
			p.AlignX = scene.Some(v)
		case "y":
			p.AlignY = scene.Some(v)
		default:
			return nil, errs.New(errs.ErrCodeInvalidInput, "%s %s: unknown attribute %q", d.Kind, d.ID, a.Key)
		}
	}
	res, err := engine.Apply(s, engine.Request{Kind: kind, ID: d.ID, Children: d.Children, Params: p})
	if err != nil {
		return nil, err
	}
	return res.Scene, nil
}

// setMode applies a bare word to the params of a relation of kind k.
func setMode(k scene.Kind, p *scene.Params, word string) error {
	if d, ok := scene.ParseDirection(word); ok && (k == scene.KindStack || k == scene.KindDistribute) {
		p.Direction = d
		return nil
	}
	if a, ok := scene.ParseAlignment(word); ok && (k == scene.KindAlign || k == scene.KindStack) {
		p.Alignment = a
		return nil
	}
	return errs.New(errs.ErrCodeInvalidInput, "%s does not take %q", k, word)
}

// atLine prefixes the message of a coded error with the statement's line.
func atLine(st *Statement, err error) error {
	var e *errs.Error
	if !errors.As(err, &e) {
		return fmt.Errorf("line %d: %w", st.Pos.Line, err)
	}
	return &errs.Error{Code: e.Code, Message: fmt.Sprintf("line %d: %s", st.Pos.Line, e.Message), Cause: e.Cause}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

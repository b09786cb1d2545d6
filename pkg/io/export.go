package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/twofish/pkg/engine"
	"github.com/matzehuels/twofish/pkg/layout"
	"github.com/matzehuels/twofish/pkg/scene"
)

func encodeNodes(s *scene.Scene) []node {
	out := make([]node, s.Len())
	for i := range out {
		out[i] = encodeNode(s.At(i))
	}
	return out
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteJSON encodes a scene as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(s *scene.Scene, w io.Writer) error {
	return encode(w, document{Nodes: encodeNodes(s)})
}

// ExportJSON writes a scene to a JSON file at path.
func ExportJSON(s *scene.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}

// MarshalScene returns the JSON encoding of a scene. Equal scenes produce
// identical bytes, so the output is suitable for cache keys.
func MarshalScene(s *scene.Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePositions writes absolute-position writes as a JSON array.
func WritePositions(ps []layout.Position, w io.Writer) error {
	return encode(w, encodePositions(ps))
}

// WriteResult encodes an edit result as JSON.
func WriteResult(res engine.Result, w io.Writer) error {
	out := result{
		Positions:   encodePositions(res.Positions),
		Removed:     res.Removed,
		Diagnostics: encodeDiagnostics(res.Diagnostics),
	}
	if res.Scene != nil {
		out.Nodes = encodeNodes(res.Scene)
	}
	return encode(w, out)
}

// MarshalResult returns the JSON encoding of an edit result.
func MarshalResult(res engine.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteResult(res, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

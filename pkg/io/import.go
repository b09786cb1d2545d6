package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/twofish/pkg/engine"
	errs "github.com/matzehuels/twofish/pkg/errors"
	"github.com/matzehuels/twofish/pkg/scene"
)

// ReadJSON decodes a JSON scene from r.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, a node
// has an unknown type, or an owned coordinate lacks its owner (or the
// reverse), and an INVALID_INPUT error for bad or duplicate node IDs.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*scene.Scene, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode scene")
	}
	return decodeNodes(doc.Nodes)
}

func decodeNodes(in []node) (*scene.Scene, error) {
	nodes := make([]scene.Node, 0, len(in))
	for _, n := range in {
		sn, err := decodeNode(n)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, sn)
	}
	s, err := scene.New(nodes)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "build scene")
	}
	return s, nil
}

// ImportJSON reads a JSON scene file at path.
func ImportJSON(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// UnmarshalScene decodes a scene from JSON bytes.
func UnmarshalScene(data []byte) (*scene.Scene, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ReadResult decodes an edit result written by [WriteResult].
func ReadResult(r io.Reader) (engine.Result, error) {
	var doc result
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return engine.Result{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode result")
	}
	s, err := decodeNodes(doc.Nodes)
	if err != nil {
		return engine.Result{}, err
	}
	return engine.Result{
		Scene:       s,
		Positions:   decodePositions(doc.Positions),
		Removed:     doc.Removed,
		Diagnostics: decodeDiagnostics(doc.Diagnostics),
	}, nil
}

// UnmarshalResult decodes an edit result from JSON bytes.
func UnmarshalResult(data []byte) (engine.Result, error) {
	return ReadResult(bytes.NewReader(data))
}

// UnmarshalNode decodes a single node in the scene format, such as the
// relation of an apply request.
func UnmarshalNode(data []byte) (scene.Node, error) {
	var n node
	if err := json.Unmarshal(data, &n); err != nil {
		return scene.Node{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode node")
	}
	return decodeNode(n)
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/eclaireur/pkg/deps"
)

// ReadJSON decodes a document written by [WriteJSON] into a dependency map.
//
// ReadJSON returns an error if the JSON is malformed, a node has an empty or
// duplicate key, or a dependency references an unknown key. Self references
// are dropped, as [deps.Map.AddDependency] never records them.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*deps.Map, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	m := deps.NewMap()
	for _, n := range data.Nodes {
		if n.Key == "" {
			return nil, fmt.Errorf("node with empty key")
		}
		if _, ok := m.Get(n.Key); ok {
			return nil, fmt.Errorf("node %s: duplicate key", n.Key)
		}
		m.Add(n.Key, n.FullPath, n.Folder)
	}
	for _, n := range data.Nodes {
		for _, dep := range n.Dependencies {
			if _, ok := m.Get(dep); !ok {
				return nil, fmt.Errorf("edge %s->%s: unknown key", n.Key, dep)
			}
			m.AddDependency(n.Key, dep)
		}
	}
	for _, key := range data.Unmatched {
		m.AddUnmatched(key)
	}

	return m, nil
}

// ImportJSON reads a JSON file at path and returns the decoded map.
func ImportJSON(path string) (*deps.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

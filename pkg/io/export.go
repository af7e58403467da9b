package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/eclaireur/pkg/deps"
)

type document struct {
	Nodes     []node   `json:"nodes"`
	Unmatched []string `json:"unmatched,omitempty"`
}

type node struct {
	Key          string   `json:"key"`
	FullPath     string   `json:"fullPath"`
	Folder       bool     `json:"folder,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// WriteJSON encodes a dependency map as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(m *deps.Map, w io.Writer) error {
	out := document{
		Nodes:     make([]node, 0, m.Len()),
		Unmatched: m.Unmatched(),
	}
	for _, key := range m.Keys() {
		d, _ := m.Get(key)
		out.Nodes = append(out.Nodes, node{
			Key:          key,
			FullPath:     d.FullPath,
			Folder:       d.IsFolder,
			Dependencies: d.Dependencies(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a dependency map to a JSON file at path.
func ExportJSON(m *deps.Map, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(m, f)
}

// WriteDependencies writes m as a JSON object mapping each key to its
// dependency list. Members follow map order, which encoding/json cannot
// express for Go maps, so the object is assembled member by member.
func WriteDependencies(m *deps.Map, w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, key := range m.Keys() {
		if i > 0 {
			buf.WriteString(",")
		}
		k, err := json.Marshal(key)
		if err != nil {
			return fmt.Errorf("encode key %s: %w", key, err)
		}
		list := m.Dependencies(key)
		if list == nil {
			list = []string{}
		}
		v, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		buf.WriteString("\n  ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
	}
	if m.Len() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

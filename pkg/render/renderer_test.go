package render

import (
	"bytes"
	"testing"

	"github.com/matzehuels/eclaireur/pkg/cluster"
	"github.com/matzehuels/eclaireur/pkg/errors"
)

func TestRegistry(t *testing.T) {
	calls := New("calls", ".txt", func() Backend[string] { return &recorder{} })
	upper := Post("CALLS", ".TXT", calls, func(b []byte) ([]byte, error) { return bytes.ToUpper(b), nil })

	reg := NewRegistry(calls, upper)
	reg.Alias("c", "calls")

	m := exampleMap()
	tree := cluster.Build(m.Keys())

	out, err := reg.Render("c", m, tree)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("graph eclaireur")) {
		t.Errorf("Render(c) = %q", out)
	}

	out, err = reg.Render("CALLS", m, tree)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("GRAPH ECLAIREUR")) {
		t.Errorf("Render(CALLS) = %q", out)
	}

	// a fresh back end per render
	again, _ := reg.Render("calls", m, tree)
	first, _ := reg.Render("calls", m, tree)
	if !bytes.Equal(again, first) {
		t.Error("renders should not share back-end state")
	}

	if _, err := reg.Get("nope"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Get(nope) err = %v, want INVALID_FORMAT", err)
	}
	if got := reg.Formats(); len(got) != 2 || got[0] != "CALLS" || got[1] != "calls" {
		t.Errorf("Formats() = %v", got)
	}
	if !reg.Has("c") || reg.Has("x") {
		t.Error("Has() mismatch")
	}
}

package render

import (
	"path"
	"strconv"
	"strings"

	"github.com/matzehuels/eclaireur/pkg/deps"
)

// NodeColors maps file extensions (without dot) to node colors.
var NodeColors = map[string]string{
	"js":   "#f0db4f",
	"ts":   "#007acc",
	"css":  "#7963ad",
	"scss": "#cd6799",
	"vue":  "#41b883",
	"jsx":  "#61dbfb",
	"tsx":  "#61dbfb",
}

// Styles holds the format-independent style channels of a node.
// Empty strings and a zero StrokeWidth are unset.
type Styles struct {
	Fill        string
	Stroke      string
	Color       string
	StrokeWidth float64
}

// Attr is one back-end specific style attribute.
type Attr struct {
	Name  string
	Value string
}

// StyleTransformers maps each style channel to a back-end attribute.
type StyleTransformers struct {
	Fill        func(string) Attr
	Stroke      func(string) Attr
	Color       func(string) Attr
	StrokeWidth func(float64) Attr
}

// TransformStyles applies t to the set channels of s, in the order fill,
// stroke, color, stroke width. When two channels map to the same attribute
// name, the later one wins and keeps the earlier position.
func TransformStyles(s Styles, t StyleTransformers) []Attr {
	var attrs []Attr
	set := func(a Attr) {
		if a.Name == "" {
			return
		}
		for i := range attrs {
			if attrs[i].Name == a.Name {
				attrs[i].Value = a.Value
				return
			}
		}
		attrs = append(attrs, a)
	}

	if s.Fill != "" && t.Fill != nil {
		set(t.Fill(s.Fill))
	}
	if s.Stroke != "" && t.Stroke != nil {
		set(t.Stroke(s.Stroke))
	}
	if s.Color != "" && t.Color != nil {
		set(t.Color(s.Color))
	}
	if s.StrokeWidth != 0 && t.StrokeWidth != nil {
		set(t.StrokeWidth(s.StrokeWidth))
	}
	return attrs
}

// StyleFor returns the node style of key: neutral for abstraction folders,
// colored by extension for files.
func StyleFor(key string, d *deps.Detail) Styles {
	if d != nil && d.IsFolder {
		return Styles{
			Fill:        "#ffffff11",
			Stroke:      "#ffffff33",
			Color:       "#ffffff",
			StrokeWidth: 2,
		}
	}
	color := NodeColors[strings.TrimPrefix(path.Ext(key), ".")]
	return Styles{
		Fill:        "transparent",
		Stroke:      color,
		Color:       color,
		StrokeWidth: 2,
	}
}

// FormatWidth formats a stroke width without trailing zeros.
func FormatWidth(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

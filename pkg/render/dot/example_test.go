package dot_test

import (
	"fmt"

	"github.com/matzehuels/eclaireur/pkg/cluster"
	"github.com/matzehuels/eclaireur/pkg/deps"
	"github.com/matzehuels/eclaireur/pkg/render/dot"
)

func ExampleRenderer() {
	m := deps.NewMap()
	m.Add("main.js", "/src/main.js", false)
	m.Add("util.js", "/src/util.js", false)
	m.AddDependency("main.js", "util.js")

	out, _ := dot.Renderer().Render(m, cluster.Build(m.Keys()))
	fmt.Print(string(out))
	// Output:
	// digraph "eclaireur dependency tree" {
	//   bgcolor="#1d252e";
	//   rankdir="LR";
	//   fontname="Helvetica-bold";
	//   style="filled, rounded";
	//   fillcolor="#ffffff11";
	//   color="#ffffff33";
	//   fontcolor="#ffffff";
	//   node [shape="box", style="filled, rounded", fontname="Helvetica", color="#aaaaaa", fillcolor="transparent", fontcolor="#aaaaaa", height="0"];
	//   edge [arrowhead="normal", arrowsize="0.6", penwidth="2.0", color="#ffffff55"];
	//
	//   "main.js" [label="main.js", fillcolor="transparent", color="#f0db4f", fontcolor="#f0db4f", penwidth="2"];
	//   "util.js" [label="util.js", fillcolor="transparent", color="#f0db4f", fontcolor="#f0db4f", penwidth="2"];
	//
	//   "main.js" -> "util.js";
	// }
}

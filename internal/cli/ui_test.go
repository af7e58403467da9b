package cli

import (
	"strings"
	"testing"
)

func TestStatusOutput(t *testing.T) {
	buf := captureStatus(t)

	printSuccess("Dependency graph of %s", "main.ts")
	printStats(4, 3, true)
	printFile("out/deps.dot")
	printUnmatched([]string{"theme.css"})

	out := buf.String()
	for _, want := range []string{
		iconSuccess + " Dependency graph of main.ts",
		"4 files · 3 imports · cached",
		iconArrow + " out/deps.dot",
		"1 files had no matching extractor",
		"  theme.css",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestRelToCwd(t *testing.T) {
	tests := []struct{ entry, root, want string }{
		{"/p/src/main.ts", "/p", "src/main.ts"},
		{"/other/main.ts", "/p", "/other/main.ts"},
		{"src/main.ts", "/p", "src/main.ts"},
	}
	for _, tt := range tests {
		if got := relToCwd(tt.entry, tt.root); got != tt.want {
			t.Errorf("relToCwd(%q, %q) = %q, want %q", tt.entry, tt.root, got, tt.want)
		}
	}
}

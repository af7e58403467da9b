package javascript

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/eclaireur/pkg/deps"
)

type alias struct {
	name   string
	target string
}

// newAliases orders aliases longest first so that "@app" wins over "@".
func newAliases(m map[string]string) []alias {
	out := make([]alias, 0, len(m))
	for name, target := range m {
		out = append(out, alias{name: strings.TrimSuffix(name, "/"), target: target})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].name) != len(out[j].name) {
			return len(out[i].name) > len(out[j].name)
		}
		return out[i].name < out[j].name
	})
	return out
}

type resolver struct {
	fs         deps.FileSystem
	root       string
	extensions []string
	aliases    []alias
}

// resolve maps spec, imported from a file in dir, to an absolute path.
func (r resolver) resolve(dir, spec string) (string, bool) {
	if i := strings.IndexAny(spec, "?#"); i > 0 {
		spec = spec[:i]
	}
	if spec == "" || IsBuiltin(spec) {
		return "", false
	}

	switch {
	case spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		return r.probe(filepath.Join(dir, spec))
	case filepath.IsAbs(spec):
		return r.probe(filepath.Clean(spec))
	}

	if target, ok := r.alias(spec); ok {
		return r.probe(target)
	}
	return r.resolvePackage(dir, spec)
}

func (r resolver) alias(spec string) (string, bool) {
	for _, a := range r.aliases {
		rest, ok := strings.CutPrefix(spec, a.name)
		if !ok || (rest != "" && rest[0] != '/') {
			continue
		}
		target := a.target
		if !filepath.IsAbs(target) {
			target = filepath.Join(r.root, target)
		}
		return filepath.Join(target, rest), true
	}
	return "", false
}

// resolvePackage looks spec up in node_modules folders from dir upwards.
func (r resolver) resolvePackage(dir, spec string) (string, bool) {
	for {
		if path, ok := r.probe(filepath.Join(dir, "node_modules", spec)); ok {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// probe tries base as a file, then with each extension, then as a directory.
func (r resolver) probe(base string) (string, bool) {
	if path, ok := r.probeFile(base); ok {
		return path, true
	}
	if !r.isDir(base) {
		return "", false
	}
	if main, ok := r.packageMain(base); ok {
		if path, ok := r.probeFile(filepath.Join(base, main)); ok {
			return path, true
		}
	}
	return r.probeFile(filepath.Join(base, "index"))
}

// probeFile is probe without directory handling.
func (r resolver) probeFile(base string) (string, bool) {
	if r.isFile(base) {
		return filepath.ToSlash(base), true
	}
	for _, ext := range r.extensions {
		if r.isFile(base + ext) {
			return filepath.ToSlash(base + ext), true
		}
	}
	return "", false
}

type packageJSON struct {
	Module string `json:"module"`
	Main   string `json:"main"`
}

func (r resolver) packageMain(dir string) (string, bool) {
	data, err := r.fs.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return "", false
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", false
	}
	switch {
	case pkg.Module != "":
		return pkg.Module, true
	case pkg.Main != "":
		return pkg.Main, true
	}
	return "", false
}

func (r resolver) isFile(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (r resolver) isDir(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && info.IsDir()
}

package pipeline

import (
	"regexp"
	"slices"

	"github.com/matzehuels/eclaireur/pkg/deps"
	"github.com/matzehuels/eclaireur/pkg/deps/javascript"
	"github.com/matzehuels/eclaireur/pkg/deps/vue"
	"github.com/matzehuels/eclaireur/pkg/errors"
)

var (
	vueFiles    = regexp.MustCompile(`\.vue$`)
	scriptFiles = regexp.MustCompile(`\.[mc]?[jt]sx?$`)
)

// DefaultExtractors returns the extractor names enabled by default.
func DefaultExtractors() []string {
	return []string{javascript.Name, vue.Name}
}

// Extractors builds the ordered extractor configuration for names. Vue
// precedes JavaScript so that forwarded script blocks reach the script
// extractor. The JavaScript extractor is always present when Vue is enabled,
// since Vue only forwards.
func Extractors(names []string, extensions []string, aliases map[string]string) ([]deps.ExtractorConfig, error) {
	for _, n := range names {
		if n != javascript.Name && n != vue.Name {
			return nil, errors.New(errors.ErrCodeUnsupported, "unknown extractor %q", n)
		}
	}

	var configs []deps.ExtractorConfig
	if slices.Contains(names, vue.Name) {
		configs = append(configs, deps.ExtractorConfig{Test: vueFiles, Extractor: vue.New()})
	}
	if slices.Contains(names, javascript.Name) || slices.Contains(names, vue.Name) {
		js := javascript.New(javascript.Options{Extensions: extensions, Aliases: aliases})
		configs = append(configs, deps.ExtractorConfig{Test: scriptFiles, Extractor: js})
	}
	return configs, nil
}

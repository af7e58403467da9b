package vue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/eclaireur/pkg/deps"
	"github.com/matzehuels/eclaireur/pkg/deps/javascript"
)

const component = `<template>
  <div>
    <template v-if="ok"><span>{{ msg }}</span></template>
    <Card />
  </div>
</template>

<script lang="ts">
import Card from './Card.vue';
import { helper } from '../lib/helper';
export default { components: { Card } };
</script>

<script setup>
import { ref } from './state';
</script>

<style scoped>
div { color: red; }
</style>
`

func TestScripts(t *testing.T) {
	got, err := Scripts([]byte(component))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "ts", got[0].Lang)
	assert.False(t, got[0].Setup)
	assert.Contains(t, got[0].Content, "import Card from './Card.vue';")

	assert.Equal(t, "js", got[1].Lang)
	assert.True(t, got[1].Setup)
	assert.Contains(t, got[1].Content, "./state")
}

func TestScriptsIgnoresTemplateScripts(t *testing.T) {
	src := `<template><script>import x from './x'</script></template>`
	got, err := Scripts([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractImportsForwards(t *testing.T) {
	var forwarded []deps.FileInfo
	forward := func(_ context.Context, info deps.FileInfo) ([]string, error) {
		forwarded = append(forwarded, info)
		return []string{"/src/shared.js", info.Path + ".dep"}, nil
	}

	info := deps.NewFileInfo("/src/components/App.vue", []byte(component))
	got, err := New().ExtractImports(context.Background(), info, forward, deps.ExtractOptions{})
	require.NoError(t, err)

	require.Len(t, forwarded, 2)
	assert.Equal(t, "/src/components/App.vue.ts", forwarded[0].Path)
	assert.Equal(t, ".ts", forwarded[0].Extension)
	assert.Equal(t, "/src/components", forwarded[0].Dirname)
	assert.Equal(t, "/src/components/App.vue.js", forwarded[1].Path)

	assert.Equal(t, []string{
		"/src/shared.js",
		"/src/components/App.vue.ts.dep",
		"/src/components/App.vue.js.dep",
	}, got)
}

func TestBuildWithJavaScript(t *testing.T) {
	fsys := deps.NewMapFileSystem(map[string]string{
		"/src/main.ts":             "import App from './components/App.vue';",
		"/src/components/App.vue":  component,
		"/src/components/Card.vue": "<template><div/></template>",
		"/src/lib/helper.ts":       "export const helper = 1;",
		"/src/components/state.js": "export const ref = 1;",
	})

	m, err := deps.Build(context.Background(), "main.ts", "/src", deps.Options{
		FileSystem: fsys,
		Extractors: []deps.ExtractorConfig{
			{Extractor: New()},
			{Extractor: javascript.New(javascript.Options{})},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"components/App.vue"}, m.Dependencies("main.ts"))
	assert.ElementsMatch(t, []string{
		"components/Card.vue",
		"lib/helper.ts",
		"components/state.js",
	}, m.Dependencies("components/App.vue"))
	assert.Empty(t, m.Dependencies("components/Card.vue"))
	assert.Empty(t, m.Unmatched())
}

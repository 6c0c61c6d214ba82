package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcessImports_NoImports(t *testing.T) {
	css := `.toast { color: red; }`
	assert.Equal(t, css, ProcessImports(css, "", nil))
}

func TestProcessImports_FileImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "_colors.css", `.toast { --accent: #ff0000; }`)

	result := ProcessImports(`@import "_colors.css";
.toast-body { color: red; }`, dir, nil)

	assert.Contains(t, result, "/* imported: _colors.css */")
	assert.Contains(t, result, "--accent: #ff0000")
	assert.Contains(t, result, ".toast-body")
}

func TestProcessImports_NestedImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "_grandchild.css", `.grandchild { color: blue; }`)
	writeFile(t, dir, "_child.css", `@import "_grandchild.css";
.child { color: green; }`)

	result := ProcessImports(`@import "_child.css";
.main { color: red; }`, dir, nil)

	assert.Contains(t, result, "/* imported: _child.css */")
	assert.Contains(t, result, "/* imported: _grandchild.css */")
	assert.Contains(t, result, ".grandchild")
	assert.Contains(t, result, ".main")
}

func TestProcessImports_CircularPrevention(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "_a.css", `@import "_b.css";
.a { color: red; }`)
	writeFile(t, dir, "_b.css", `@import "_a.css";
.b { color: blue; }`)

	result := ProcessImports(`@import "_a.css";`, dir, nil)

	assert.Contains(t, result, "/* imported: _a.css */")
	assert.Contains(t, result, "/* imported: _b.css */")
	assert.Contains(t, result, "/* circular import prevented: _a.css */")
}

func TestProcessImports_MissingFile(t *testing.T) {
	result := ProcessImports(`@import "nonexistent.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* import failed: nonexistent.css")

	result = ProcessImports(`@import "nonexistent.css";`, "", nil)
	assert.Contains(t, result, "/* import failed: nonexistent.css - not bundled */")
}

func TestProcessImports_FallbackToEmbedded(t *testing.T) {
	dir := t.TempDir()

	result := ProcessImports(`@import "_severity.css";`, dir, nil)
	assert.Contains(t, result, "/* imported (embedded): _severity.css */")
	assert.Contains(t, result, ".bg-danger")

	// Embedded themes have their own imports resolved too
	result = ProcessImports(`@import "default.css";`, dir, nil)
	assert.Contains(t, result, "/* imported (embedded): default.css */")
	assert.Contains(t, result, ".bg-info")
}

func TestProcessImports_LocalPartialOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "_severity.css", `.toast.bg-success { background-color: lime; }`)

	result := ProcessImports(`@import "_severity.css";`, dir, nil)
	assert.Contains(t, result, "/* imported: _severity.css */")
	assert.Contains(t, result, "lime")
}

func TestImportRegex(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`@import "file.css";`, "file.css"},
		{`@import 'file.css';`, "file.css"},
		{`@import url("file.css");`, "file.css"},
		{`@import url( "file.css" );`, "file.css"},
		{`@import "_partial.css"`, "_partial.css"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			matches := importRegex.FindStringSubmatch(tt.input)
			require.Len(t, matches, 2)
			assert.Equal(t, tt.expected, matches[1])
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "minimal.css", `.toast { padding: 1px; }`)
	writeFile(t, dir, "mine.css", `@import "_severity.css";
.toast { padding: 2px; }`)

	th, err := Resolve(dir, "minimal")
	require.NoError(t, err)
	assert.Equal(t, SourceUser, th.Source, "user file overrides bundled theme")
	assert.Contains(t, th.CSS, "padding: 1px")
	assert.False(t, th.IsEmbedded())

	th, err = Resolve(dir, "mine")
	require.NoError(t, err)
	assert.Contains(t, th.CSS, ".bg-warning")

	th, err = Resolve(dir, "default")
	require.NoError(t, err)
	assert.Equal(t, SourceBundled, th.Source)
	assert.True(t, th.IsEmbedded())

	th, err = Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultThemeName, th.Name)
}

func TestResolve_UnknownFallsBack(t *testing.T) {
	th, err := Resolve(t.TempDir(), "nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
	require.NotNil(t, th)
	assert.Equal(t, SourceFallback, th.Source)
	assert.Equal(t, DefaultThemeName, th.Name)
	assert.Contains(t, th.CSS, ".bg-success")
}

func TestTheme_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "test.css", `.toast { color: red; }`)

	th, err := NewTheme("test", path)
	require.NoError(t, err)

	changed, err := th.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	writeFile(t, dir, "_new.css", `.toast { --new-color: blue; }`)
	writeFile(t, dir, "test.css", `@import "_new.css";
.toast { color: var(--new-color); }`)

	changed, err = th.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, th.CSS, "/* imported: _new.css */")
}

func TestTheme_ReloadEmbedded(t *testing.T) {
	th, err := Resolve("", "default")
	require.NoError(t, err)
	changed, err := th.Reload()
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestListAvailableThemes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "custom.css", ".toast {}")
	writeFile(t, dir, "default.css", ".toast {}")
	writeFile(t, dir, "_partial.css", ".x {}")
	writeFile(t, dir, "notes.txt", "")

	themes, err := ListAvailableThemes(dir)
	require.NoError(t, err)

	names := make([]string, len(themes))
	for i, th := range themes {
		names[i] = th.Name
	}
	assert.Equal(t, []string{"default", "minimal", "custom"}, names)
	assert.Equal(t, filepath.Join(dir, "default.css"), themes[0].Path)
	assert.True(t, themes[0].IsBundled)
	assert.False(t, themes[2].IsBundled)

	themes, err = ListAvailableThemes(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Len(t, themes, 2)
}

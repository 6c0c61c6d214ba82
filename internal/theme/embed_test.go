package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/model"
)

func TestBundledTheme_Default(t *testing.T) {
	css, found := BundledTheme("default")
	require.True(t, found, "default theme should be found")
	assert.Contains(t, css, ".toast")
	assert.Contains(t, css, ".toast-body")
	// Should use Adwaita variables
	assert.Contains(t, css, "@window_bg_color")
	assert.Contains(t, css, `@import "_severity.css"`)
}

func TestBundledTheme_Minimal(t *testing.T) {
	css, found := BundledTheme("minimal")
	require.True(t, found)
	assert.Contains(t, css, ".toast")
	assert.Contains(t, css, "border-radius: 0")
}

func TestBundledTheme_NotFound(t *testing.T) {
	for _, name := range []string{"nonexistent", "", "_severity"} {
		css, found := BundledTheme(name)
		assert.False(t, found, name)
		assert.Empty(t, css)
	}
}

func TestBundledPartial(t *testing.T) {
	for _, name := range []string{"_severity.css", "severity", "_severity"} {
		css, found := BundledPartial(name)
		require.True(t, found, name)
		assert.Contains(t, css, ".bg-success")
	}

	_, found := BundledPartial("_nonexistent.css")
	assert.False(t, found)
}

func TestListBundledThemes(t *testing.T) {
	themes := ListBundledThemes()
	assert.ElementsMatch(t, BundledThemes, themes)
	for _, name := range themes {
		assert.False(t, strings.HasPrefix(name, "_"), "partial listed: %s", name)
	}
}

func TestIsBundledTheme(t *testing.T) {
	assert.True(t, IsBundledTheme("default"))
	assert.True(t, IsBundledTheme("minimal"))
	assert.False(t, IsBundledTheme("catppuccin"))
}

func TestBundledThemes_StyleEverySeverity(t *testing.T) {
	for _, name := range BundledThemes {
		t.Run(name, func(t *testing.T) {
			th, err := Resolve("", name)
			require.NoError(t, err)

			for _, class := range model.SeverityClasses() {
				assert.Contains(t, th.CSS, "."+class, "theme %s should style %s", name, class)
			}
			assert.Contains(t, th.CSS, "."+model.TextWhiteClass)
			assert.NotContains(t, th.CSS, "import failed")
		})
	}
}

func TestBundledThemes_BalancedBraces(t *testing.T) {
	for _, name := range append(BundledThemes, "_severity") {
		t.Run(name, func(t *testing.T) {
			css, found := BundledTheme(name)
			if !found {
				css, found = BundledPartial(name)
			}
			require.True(t, found)
			assert.Equal(t, strings.Count(css, "{"), strings.Count(css, "}"))
		})
	}
}

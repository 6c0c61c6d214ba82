package theme

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed themes/*.css
var bundledFS embed.FS

// DefaultThemeName is the name of the built-in default theme.
const DefaultThemeName = "default"

// SeverityPartial is the bundled partial carrying the bg-* and text-white
// rules. User themes can pull it in with @import "_severity.css".
const SeverityPartial = "_severity.css"

// BundledThemes lists the embedded theme names, partials excluded.
var BundledThemes = []string{"default", "minimal"}

// partialPrefix marks CSS files that are imported, never loaded directly.
const partialPrefix = "_"

func readBundled(file string) (string, bool) {
	data, err := bundledFS.ReadFile(path.Join("themes", file))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// BundledTheme returns the CSS of a bundled theme. Imports are left
// unresolved; use Resolve for a ready-to-load theme.
func BundledTheme(name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, partialPrefix) {
		return "", false
	}
	return readBundled(name + ".css")
}

// BundledPartial returns a bundled partial. The leading underscore and
// .css suffix are optional.
func BundledPartial(name string) (string, bool) {
	name = strings.TrimSuffix(strings.TrimPrefix(name, partialPrefix), ".css")
	if name == "" {
		return "", false
	}
	return readBundled(partialPrefix + name + ".css")
}

// ListBundledThemes returns the embedded theme names in sorted order.
func ListBundledThemes() []string {
	files, err := fs.Glob(bundledFS, "themes/*.css")
	if err != nil {
		return slices.Clone(BundledThemes)
	}

	var names []string
	for _, f := range files {
		base := path.Base(f)
		if strings.HasPrefix(base, partialPrefix) {
			continue
		}
		names = append(names, strings.TrimSuffix(base, ".css"))
	}
	slices.Sort(names)
	return names
}

// IsBundledTheme reports whether name is an embedded theme.
func IsBundledTheme(name string) bool {
	_, ok := BundledTheme(name)
	return ok
}

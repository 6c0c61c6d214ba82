package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jmylchreest/toasty/internal/config"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Source tells where a resolved theme came from.
type Source string

const (
	SourceUser     Source = "user"
	SourceBundled  Source = "bundled"
	SourceFallback Source = "fallback"
)

// Theme is a resolved stylesheet with all imports inlined.
type Theme struct {
	Name    string    // Theme name (without .css extension)
	Path    string    // File path for user themes, empty otherwise
	CSS     string    // Processed CSS
	ModTime time.Time // Modification time of Path
	Source  Source
}

// IsEmbedded reports whether the theme has no file on disk to watch.
func (t *Theme) IsEmbedded() bool {
	return t.Path == ""
}

// ThemesDir returns the user themes directory.
func ThemesDir() string {
	return config.ThemesDir()
}

// NewTheme loads a user theme from path, inlining @import statements.
func NewTheme(name, path string) (*Theme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
		Source:  SourceUser,
	}, nil
}

// Resolve finds a theme by name. A file named <name>.css in themesDir
// overrides a bundled theme of the same name. Unknown names resolve to the
// bundled default with SourceFallback. The error reports a user theme that
// exists but could not be read; the returned theme is still usable.
func Resolve(themesDir, name string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}

	var userErr error
	if themesDir != "" {
		path := filepath.Join(themesDir, name+".css")
		if _, err := os.Stat(path); err == nil {
			t, err := NewTheme(name, path)
			if err == nil {
				return t, nil
			}
			userErr = fmt.Errorf("failed to load user theme %q: %w", name, err)
		}
	}

	if css, found := BundledTheme(name); found {
		return &Theme{
			Name:   name,
			CSS:    ProcessImports(css, "", nil),
			Source: SourceBundled,
		}, userErr
	}

	css, _ := BundledTheme(DefaultThemeName)
	t := &Theme{
		Name:   DefaultThemeName,
		CSS:    ProcessImports(css, "", nil),
		Source: SourceFallback,
	}
	if userErr == nil {
		userErr = fmt.Errorf("theme %q not found: %w", name, os.ErrNotExist)
	}
	return t, userErr
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, then against bundled partials
// and themes. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) && baseDir != "" {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		var data []byte
		var err error
		if baseDir != "" || filepath.IsAbs(importPath) {
			data, err = os.ReadFile(fullPath)
		} else {
			err = os.ErrNotExist
		}
		if err == nil {
			return "/* imported: " + importPath + " */\n" + ProcessImports(string(data), filepath.Dir(fullPath), seen)
		}

		if embedded, ok := embeddedImport(filepath.Base(importPath)); ok {
			return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(embedded, "", seen)
		}

		if baseDir == "" && !filepath.IsAbs(importPath) {
			return "/* import failed: " + importPath + " - not bundled */"
		}
		return "/* import failed: " + importPath + " - " + err.Error() + " */"
	})
}

func embeddedImport(base string) (string, bool) {
	if strings.HasPrefix(base, "_") {
		return BundledPartial(base)
	}
	return BundledTheme(strings.TrimSuffix(base, ".css"))
}

// Reload re-reads a user theme from disk.
// Returns true if the processed CSS changed.
func (t *Theme) Reload() (bool, error) {
	if t.IsEmbedded() {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	processed := ProcessImports(string(css), filepath.Dir(t.Path), nil)
	changed := processed != t.CSS
	t.CSS = processed
	t.ModTime = info.ModTime()
	return changed, nil
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	IsDefault bool   `json:"default" yaml:"default"`
	IsBundled bool   `json:"bundled" yaml:"bundled"`
}

// ListAvailableThemes lists bundled themes followed by user themes from
// themesDir. A user theme that overrides a bundled one is listed once,
// with its path.
func ListAvailableThemes(themesDir string) ([]ThemeInfo, error) {
	index := make(map[string]int)
	var themes []ThemeInfo

	for _, name := range ListBundledThemes() {
		index[name] = len(themes)
		themes = append(themes, ThemeInfo{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			IsBundled: true,
		})
	}

	if themesDir == "" {
		return themes, nil
	}
	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".css" || strings.HasPrefix(name, "_") {
			continue
		}
		themeName := strings.TrimSuffix(name, ".css")
		path := filepath.Join(themesDir, name)
		if i, ok := index[themeName]; ok {
			themes[i].Path = path
			continue
		}
		index[themeName] = len(themes)
		themes = append(themes, ThemeInfo{Name: themeName, Path: path})
	}

	return themes, nil
}

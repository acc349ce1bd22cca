// Package prefs persists postboard's user preferences.
// Preferences are stored in ~/.config/postboard/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/postboard/internal/query"
)

// Prefs holds the view settings remembered between runs.
type Prefs struct {
	Theme         string `toml:"theme"`
	PageSize      int    `toml:"page_size,omitempty"`
	SortKey       string `toml:"sort_key,omitempty"`
	SortDirection string `toml:"sort_direction,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/postboard/prefs.toml"
	defaultTheme     = "Dracula"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Default(), nil // Graceful degradation
	}

	var prefs Prefs
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}
	return prefs.sanitize(), nil
}

// sanitize drops values that no longer parse instead of failing the load.
func (p Prefs) sanitize() Prefs {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if p.PageSize < 0 {
		p.PageSize = 0
	}
	if _, err := query.ParseSortKey(p.SortKey); err != nil {
		p.SortKey = ""
	}
	if _, err := query.ParseDirection(p.SortDirection); err != nil {
		p.SortDirection = ""
	}
	return p
}

// ApplyTo overlays the stored view settings on params. Unset fields leave
// params untouched.
func (p Prefs) ApplyTo(params query.Params) query.Params {
	if p.PageSize > 0 {
		params.PageSize = p.PageSize
	}
	if strings.TrimSpace(p.SortKey) != "" {
		if key, err := query.ParseSortKey(p.SortKey); err == nil {
			params.SortKey = key
		}
	}
	if strings.TrimSpace(p.SortDirection) != "" {
		if dir, err := query.ParseDirection(p.SortDirection); err == nil {
			params.Direction = dir
		}
	}
	return params
}

// Capture records the view settings of params worth keeping.
func (p Prefs) Capture(params query.Params) Prefs {
	p.PageSize = params.PageSize
	p.SortKey = string(params.SortKey)
	p.SortDirection = string(params.Direction)
	return p
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

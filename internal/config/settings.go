package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Theme is a named set of terminal colors (ANSI 256 codes).
type Theme struct {
	Name       string `json:"name"`
	Primary    string `json:"primary"`    // Titles and the playing track
	Secondary  string `json:"secondary"`  // Directories
	Foreground string `json:"foreground"` // Text
	Muted      string `json:"muted"`      // Help and inactive text
	Border     string `json:"border"`
	Highlight  string `json:"highlight"` // Selection
	Error      string `json:"error"`
}

var builtinThemes = map[string]Theme{
	"default": {
		Name:       "Default",
		Primary:    "51",  // Cyan
		Secondary:  "117", // Light blue
		Foreground: "252",
		Muted:      "240",
		Border:     "75",
		Highlight:  "51",
		Error:      "196",
	},
	"dark": {
		Name:       "Dark",
		Primary:    "39",
		Secondary:  "33",
		Foreground: "255",
		Muted:      "244",
		Border:     "238",
		Highlight:  "39",
		Error:      "160",
	},
	"forest": {
		Name:       "Forest",
		Primary:    "34",
		Secondary:  "28",
		Foreground: "150",
		Muted:      "240",
		Border:     "28",
		Highlight:  "46",
		Error:      "124",
	},
	"sunset": {
		Name:       "Sunset",
		Primary:    "208",
		Secondary:  "196",
		Foreground: "224",
		Muted:      "240",
		Border:     "208",
		Highlight:  "196",
		Error:      "160",
	},
}

// ThemeNames lists the built-in themes in a stable order.
func ThemeNames() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTheme returns the named theme, falling back to the default one.
func LookupTheme(name string) Theme {
	if theme, ok := builtinThemes[name]; ok {
		return theme
	}
	return builtinThemes["default"]
}

// NextTheme returns the theme after name in ThemeNames order, wrapping around.
func NextTheme(name string) string {
	names := ThemeNames()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// Settings holds the user preferences persisted between runs.
type Settings struct {
	Theme      string `json:"theme"`
	Volume     int    `json:"volume"`      // 0-100
	TickMillis int    `json:"tick_millis"` // Redraw and playback tick interval
	LogLevel   string `json:"log_level"`
	LogFile    string `json:"log_file"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:      "default",
		Volume:     50,
		TickMillis: 100,
		LogLevel:   "info",
	}
}

// TickInterval returns the tick rate, bounded to something a terminal can
// redraw at.
func (s Settings) TickInterval() time.Duration {
	ms := s.TickMillis
	if ms < 20 {
		ms = 20
	}
	if ms > 1000 {
		ms = 1000
	}
	return time.Duration(ms) * time.Millisecond
}

// Normalize clamps out-of-range values coming from disk or the environment.
func (s *Settings) Normalize() {
	if s.Volume < 0 {
		s.Volume = 0
	}
	if s.Volume > 100 {
		s.Volume = 100
	}
	if _, ok := builtinThemes[s.Theme]; !ok {
		s.Theme = "default"
	}
	if s.TickMillis <= 0 {
		s.TickMillis = DefaultSettings().TickMillis
	}
}

// Manager loads and saves Settings in a JSON file.
type Manager struct {
	settings Settings
	filePath string
}

// NewManager uses dir as the config directory, creating it if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	m := &Manager{
		settings: DefaultSettings(),
		filePath: filepath.Join(dir, "settings.json"),
	}
	if err := m.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return m, nil
}

// DefaultDir is ~/.leek.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".leek"), nil
}

func (m *Manager) Load() error {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		return err
	}
	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return err
	}
	settings.Normalize()
	m.settings = settings
	return nil
}

func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return os.WriteFile(m.filePath, data, 0644)
}

func (m *Manager) Settings() Settings {
	return m.settings
}

// Update replaces the settings in memory; call Save to persist them.
func (m *Manager) Update(s Settings) {
	s.Normalize()
	m.settings = s
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default settings values.
const (
	DefaultHistoryLimit      = 1000
	DefaultCompletionTimeout = 500 * time.Millisecond
	DefaultRequestTimeout    = 30 * time.Second
	DefaultConfirmDelete     = true
)

// Settings are the user-adjustable knobs persisted in kshell.yaml.
type Settings struct {
	HistoryLimit      int           `yaml:"history_limit"`
	CompletionTimeout time.Duration `yaml:"completion_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ConfirmDelete     bool          `yaml:"confirm_delete"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() *Settings {
	return &Settings{
		HistoryLimit:      DefaultHistoryLimit,
		CompletionTimeout: DefaultCompletionTimeout,
		RequestTimeout:    DefaultRequestTimeout,
		ConfirmDelete:     DefaultConfirmDelete,
	}
}

// LoadSettings reads settings from path. A missing file yields the defaults
// without error. An unreadable or malformed file yields the defaults and an
// error the caller should report as a warning.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return s, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if err := loaded.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return loaded, nil
}

// Save writes the settings to path, creating the parent directory.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	if s.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative")
	}
	if s.CompletionTimeout <= 0 {
		return fmt.Errorf("completion_timeout must be positive")
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

// settingSetters maps setting keys to parsers that apply a string value.
var settingSetters = map[string]func(s *Settings, v string) error{
	"history_limit": func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("history_limit: %w", err)
		}
		s.HistoryLimit = n
		return nil
	},
	"completion_timeout": func(s *Settings, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("completion_timeout: %w", err)
		}
		s.CompletionTimeout = d
		return nil
	},
	"request_timeout": func(s *Settings, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		s.RequestTimeout = d
		return nil
	},
	"confirm_delete": func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("confirm_delete: %w", err)
		}
		s.ConfirmDelete = b
		return nil
	},
}

// SettingKeys returns the names accepted by Set, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingSetters))
	for k := range settingSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set parses value and assigns it to the named setting. The settings are
// left unchanged when parsing or validation fails.
func (s *Settings) Set(key, value string) error {
	setter, ok := settingSetters[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(SettingKeys(), ", "))
	}
	next := *s
	if err := setter(&next, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

// Get renders the named setting as a string.
func (s *Settings) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "history_limit":
		return strconv.Itoa(s.HistoryLimit), true
	case "completion_timeout":
		return s.CompletionTimeout.String(), true
	case "request_timeout":
		return s.RequestTimeout.String(), true
	case "confirm_delete":
		return strconv.FormatBool(s.ConfirmDelete), true
	}
	return "", false
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultConfigDirName is the config directory under the user's home.
	DefaultConfigDirName = ".kube"

	HistoryFileName  = "kshell.history"
	SettingsFileName = "kshell.yaml"
)

// Paths locates the files the shell reads and writes.
type Paths struct {
	ConfigDir string
	History   string
	Settings  string
}

// ResolvePaths derives Paths from configDir, defaulting to $HOME/.kube.
func ResolvePaths(configDir string) (Paths, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		configDir = filepath.Join(home, DefaultConfigDirName)
	}
	return Paths{
		ConfigDir: configDir,
		History:   filepath.Join(configDir, HistoryFileName),
		Settings:  filepath.Join(configDir, SettingsFileName),
	}, nil
}

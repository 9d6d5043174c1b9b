package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles settings loading for one workspace.
type Loader struct {
	root string
}

// NewLoader creates a loader for the given workspace root.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Load reads the settings file, merging it over the defaults. When the
// file does not exist it is created with the defaults first, so the
// user has something to edit. ORGANIZE_* environment variables
// override file values (e.g. ORGANIZE_AI_PROVIDER).
func (l *Loader) Load() (*Settings, error) {
	path := SettingsPath(l.root)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := l.Save(DefaultSettings()); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetEnvPrefix("ORGANIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if settings.Logging.File == "" {
		settings.Logging.File = filepath.Join(l.root, SettingsDir, "organize.log")
	}

	if err := Validate(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes the settings file, creating the .ai directory if needed.
func (l *Loader) Save(settings *Settings) error {
	path := SettingsPath(l.root)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

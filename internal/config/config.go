// Package config loads and validates the workspace settings file at
// <root>/.ai/settings.json. Missing files are created with defaults;
// partial files are merged over the defaults.
package config

import "path/filepath"

// SettingsDir and SettingsFile locate the settings under the
// workspace root.
const (
	SettingsDir  = ".ai"
	SettingsFile = "settings.json"
)

// AIConfig selects the model backend.
type AIConfig struct {
	// Provider is one of "ollama", "openai", "anthropic".
	Provider string `json:"provider" mapstructure:"provider"`
	Model    string `json:"model" mapstructure:"model"`
	// EmbedModel is the embedding model; for the anthropic provider it
	// names the ollama model used for embeddings.
	EmbedModel string `json:"embed_model" mapstructure:"embed_model"`
	// BaseURL overrides the ollama endpoint.
	BaseURL                  string `json:"base_url" mapstructure:"base_url"`
	EnableDirectorySummaries bool   `json:"enable_directory_summaries" mapstructure:"enable_directory_summaries"`
}

// BehaviorConfig tunes the move decisions.
type BehaviorConfig struct {
	AutoMoveEnabled    bool    `json:"auto_move_enabled" mapstructure:"auto_move_enabled"`
	AutoMoveThreshold  float64 `json:"auto_move_threshold" mapstructure:"auto_move_threshold"`
	AskGlobalThreshold float64 `json:"ask_global_threshold" mapstructure:"ask_global_threshold"`
}

// TrashConfig controls the reversible-delete retention.
type TrashConfig struct {
	RetentionDays int `json:"retention_days" mapstructure:"retention_days"`
}

// LoggingConfig mirrors the logger package's knobs.
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

// ScanConfig controls the directory walk.
type ScanConfig struct {
	// Ignore lists base names or glob patterns to skip.
	Ignore   []string `json:"ignore" mapstructure:"ignore"`
	MaxDepth int      `json:"max_depth" mapstructure:"max_depth"`
}

// Settings is the full settings document.
type Settings struct {
	AI       AIConfig       `json:"ai" mapstructure:"ai"`
	Behavior BehaviorConfig `json:"behavior" mapstructure:"behavior"`
	Trash    TrashConfig    `json:"trash" mapstructure:"trash"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
	Scan     ScanConfig     `json:"scan" mapstructure:"scan"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() *Settings {
	return &Settings{
		AI: AIConfig{
			Provider:                 "ollama",
			Model:                    "gpt-oss:120b-cloud",
			EmbedModel:               "nomic-embed-text",
			EnableDirectorySummaries: true,
		},
		Behavior: BehaviorConfig{
			AutoMoveEnabled:    true,
			AutoMoveThreshold:  0.95,
			AskGlobalThreshold: 0.60,
		},
		Trash: TrashConfig{
			RetentionDays: 14,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Scan: ScanConfig{
			MaxDepth: -1,
		},
	}
}

// SettingsPath returns the settings file path for a workspace root.
func SettingsPath(root string) string {
	return filepath.Join(root, SettingsDir, SettingsFile)
}

package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// settingsSchema constrains the settings document: provider must be a
// known backend, thresholds stay in [0,1], retention is non-negative.
const settingsSchema = `{
  "type": "object",
  "properties": {
    "ai": {
      "type": "object",
      "properties": {
        "provider": {"type": "string", "enum": ["ollama", "openai", "anthropic"]},
        "model": {"type": "string"},
        "embed_model": {"type": "string"},
        "base_url": {"type": "string"},
        "enable_directory_summaries": {"type": "boolean"}
      }
    },
    "behavior": {
      "type": "object",
      "properties": {
        "auto_move_enabled": {"type": "boolean"},
        "auto_move_threshold": {"type": "number", "minimum": 0, "maximum": 1},
        "ask_global_threshold": {"type": "number", "minimum": 0, "maximum": 1}
      }
    },
    "trash": {
      "type": "object",
      "properties": {
        "retention_days": {"type": "integer", "minimum": 0}
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"type": "string", "enum": ["", "trace", "debug", "info", "warn", "error"]},
        "file": {"type": "string"}
      }
    },
    "scan": {
      "type": "object",
      "properties": {
        "ignore": {"type": "array", "items": {"type": "string"}},
        "max_depth": {"type": "integer"}
      }
    }
  }
}`

// Validate checks the settings against the schema.
func Validate(settings *Settings) error {
	doc, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(settingsSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}
	return nil
}

package config

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
)

// Wizard walks the user through the settings file interactively.
type Wizard struct{}

// NewWizard creates a new configuration wizard
func NewWizard() *Wizard {
	return &Wizard{}
}

// Run edits the given settings in place through a terminal form and
// returns the result. The caller decides whether to save.
func (w *Wizard) Run(settings *Settings) (*Settings, error) {
	if settings == nil {
		settings = DefaultSettings()
	}

	threshold := fmt.Sprintf("%g", settings.Behavior.AutoMoveThreshold)
	retention := strconv.Itoa(settings.Trash.RetentionDays)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Model provider").
				Options(
					huh.NewOption("Ollama (local)", "ollama"),
					huh.NewOption("OpenAI", "openai"),
					huh.NewOption("Anthropic", "anthropic"),
				).
				Value(&settings.AI.Provider),
			huh.NewInput().
				Title("Model").
				Value(&settings.AI.Model),
			huh.NewConfirm().
				Title("Generate directory summaries?").
				Value(&settings.AI.EnableDirectorySummaries),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Move files automatically at high confidence?").
				Value(&settings.Behavior.AutoMoveEnabled),
			huh.NewInput().
				Title("Auto-move confidence threshold (0-1)").
				Value(&threshold).
				Validate(validateUnitInterval),
			huh.NewInput().
				Title("Trash retention in days").
				Value(&retention).
				Validate(validateNonNegativeInt),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("configuration wizard aborted: %w", err)
	}

	settings.Behavior.AutoMoveThreshold, _ = strconv.ParseFloat(threshold, 64)
	settings.Trash.RetentionDays, _ = strconv.Atoi(retention)

	if err := Validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func validateUnitInterval(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v < 0 || v > 1 {
		return fmt.Errorf("must be between 0 and 1")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a whole number")
	}
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

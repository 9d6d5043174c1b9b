package organizer

// Tuning holds the ranking constants. They are deliberately
// configuration rather than hard-coded: the defaults are conservative
// and a workspace may loosen them through settings.
type Tuning struct {
	// MaxSuggestions caps the ranked output length.
	MaxSuggestions int
	// AutoMoveThreshold is the minimum confidence for unattended moves.
	AutoMoveThreshold float64
	// AIKnownScore is the model score for a proposal matching an
	// existing folder; AINewScore for one the model invented.
	AIKnownScore float64
	AINewScore   float64
	// MemoryOnlyScore substitutes for the model score when memory has
	// signal but the model never proposed the folder. It exceeds
	// AIKnownScore so a strong memory match can clear the auto-move
	// threshold without model agreement.
	MemoryOnlyScore float64
	// MemoryWeight and AIWeight blend memory similarity with the model
	// score when memory has signal. Memory dominates.
	MemoryWeight float64
	AIWeight     float64
	// PureAICap bounds the confidence of a candidate with no memory
	// signal, keeping pure guesses below the auto-move family.
	PureAICap float64
	// NewFolderPenalty multiplies the confidence of invented folders.
	NewFolderPenalty float64
	// NewFolderCutoff: invented folders are admitted only when the best
	// known-folder confidence falls below this (or no folders exist).
	NewFolderCutoff float64
	// MemoryLimit is how many hits to retrieve per scope.
	MemoryLimit int
}

// DefaultTuning returns the conservative defaults.
func DefaultTuning() Tuning {
	return Tuning{
		MaxSuggestions:    3,
		AutoMoveThreshold: 0.95,
		AIKnownScore:      0.7,
		AINewScore:        0.4,
		MemoryOnlyScore:   0.9,
		MemoryWeight:      0.75,
		AIWeight:          0.25,
		PureAICap:         0.6,
		NewFolderPenalty:  0.6,
		NewFolderCutoff:   0.35,
		MemoryLimit:       5,
	}
}

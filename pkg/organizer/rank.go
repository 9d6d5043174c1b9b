package organizer

import (
	"math"
	"sort"

	"github.com/akinus/organize/pkg/memory"
)

// Suggestion sources.
const (
	SourceProject = "project"
	SourceGlobal  = "global"
	SourceAI      = "ai"
	SourceAINew   = "ai-new"
)

// Suggestion is one ranked destination candidate.
type Suggestion struct {
	Folder           string   `json:"folder"`
	Confidence       float64  `json:"confidence"`
	Sources          []string `json:"sources"`
	MemoryScore      float64  `json:"memory_score"`
	AutoMoveEligible bool     `json:"auto_move_eligible"`
}

// HasSource reports whether the suggestion carries the given source tag.
func (s Suggestion) HasSource(source string) bool {
	for _, src := range s.Sources {
		if src == source {
			return true
		}
	}
	return false
}

// RankInput collects the signals the ranking engine fuses.
type RankInput struct {
	ProjectHits []memory.Hit
	GlobalHits  []memory.Hit
	// AIProposals are raw folder names from the model, already split
	// into candidate lines but not yet sanitized.
	AIProposals []string
	// KnownFolders are the existing destination folder names.
	KnownFolders []string
}

// candidate is the engine's working entity; built fresh per request.
type candidate struct {
	folder      string
	memoryScore float64
	sources     map[string]bool
	confidence  float64
}

// Rank fuses memory hits and model proposals into a deduplicated,
// confidence-scored, auto-move-flagged suggestion list, at most
// t.MaxSuggestions long. An empty result means "no actionable
// suggestion", not an error.
func Rank(in RankInput, t Tuning) []Suggestion {
	var (
		order      []*candidate
		byFolder   = map[string]*candidate{}
		accumulate = func(folder string, score float64, source string) {
			c, ok := byFolder[folder]
			if !ok {
				c = &candidate{folder: folder, sources: map[string]bool{}}
				byFolder[folder] = c
				order = append(order, c)
			}
			if score > c.memoryScore {
				c.memoryScore = score
			}
			c.sources[source] = true
		}
	)

	for _, hit := range in.ProjectHits {
		accumulate(hit.TargetFolder, hit.Score, SourceProject)
	}

	// Global memory is only consulted when project memory has signal:
	// a cold project store gives no reason to broaden the search.
	if len(in.ProjectHits) > 0 {
		for _, hit := range in.GlobalHits {
			accumulate(hit.TargetFolder, hit.Score, SourceGlobal)
		}
	}

	known := map[string]bool{}
	for _, name := range in.KnownFolders {
		if s := SanitizeFolder(name); s != "" {
			known[s] = true
		}
	}

	for _, proposal := range in.AIProposals {
		folder := SanitizeFolder(proposal)
		if folder == "" {
			continue
		}
		source := SourceAINew
		if known[folder] {
			source = SourceAI
		}
		// Model proposals never raise the memory score
		accumulate(folder, 0, source)
	}

	// Confidence composition: memory dominates, the model only nudges,
	// and invented folders take a hard penalty on top.
	for _, c := range order {
		aiScore := 0.0
		hasAI := false
		switch {
		case c.sources[SourceAI]:
			aiScore, hasAI = t.AIKnownScore, true
		case c.sources[SourceAINew]:
			aiScore, hasAI = t.AINewScore, true
		}

		if c.memoryScore <= 0 {
			if hasAI {
				c.confidence = math.Min(aiScore, t.PureAICap)
			}
		} else {
			// Memory without model agreement scores higher than model
			// agreement: the model not being asked (or failing) must not
			// drag a strong memory match below the auto-move threshold.
			if !hasAI {
				aiScore = t.MemoryOnlyScore
			}
			c.confidence = math.Min(1.0, c.memoryScore*t.MemoryWeight+aiScore*t.AIWeight)
		}

		if c.sources[SourceAINew] {
			c.confidence *= t.NewFolderPenalty
		}
	}

	// New-folder admission: the model may only introduce a folder when
	// there is nothing known to place against, or every known-backed
	// candidate is weak.
	bestKnown := 0.0
	for _, c := range order {
		if c.sources[SourceProject] || c.sources[SourceGlobal] || c.sources[SourceAI] {
			if c.confidence > bestKnown {
				bestKnown = c.confidence
			}
		}
	}
	allowNew := len(known) == 0 || bestKnown < t.NewFolderCutoff

	var ranked []Suggestion
	for _, c := range order {
		if c.sources[SourceAINew] && !allowNew {
			continue
		}

		sources := make([]string, 0, len(c.sources))
		for src := range c.sources {
			sources = append(sources, src)
		}
		sort.Strings(sources)

		memoryBacked := c.sources[SourceProject] || c.sources[SourceGlobal]

		ranked = append(ranked, Suggestion{
			Folder:           c.folder,
			Confidence:       round3(c.confidence),
			Sources:          sources,
			MemoryScore:      c.memoryScore,
			AutoMoveEligible: c.confidence >= t.AutoMoveThreshold && memoryBacked,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})

	if t.MaxSuggestions > 0 && len(ranked) > t.MaxSuggestions {
		ranked = ranked[:t.MaxSuggestions]
	}
	return ranked
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

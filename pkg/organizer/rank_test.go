package organizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinus/organize/pkg/memory"
)

func hit(folder string, score float64) memory.Hit {
	return memory.Hit{TargetFolder: folder, Score: score}
}

func TestRank_MemoryDominatesBlend(t *testing.T) {
	ranked := Rank(RankInput{
		ProjectHits:  []memory.Hit{hit("Docs", 0.8)},
		AIProposals:  []string{"Docs"},
		KnownFolders: []string{"Docs"},
	}, DefaultTuning())

	require.Len(t, ranked, 1)
	s := ranked[0]
	assert.Equal(t, "Docs", s.Folder)
	// 0.8*0.75 + 0.7*0.25 = 0.775
	assert.InDelta(t, 0.775, s.Confidence, 1e-9)
	assert.Equal(t, []string{"ai", "project"}, s.Sources)
	assert.InDelta(t, 0.8, s.MemoryScore, 1e-9)
}

func TestRank_PureAICapped(t *testing.T) {
	ranked := Rank(RankInput{
		AIProposals:  []string{"Docs"},
		KnownFolders: []string{"Docs"},
	}, DefaultTuning())

	require.Len(t, ranked, 1)
	// AIKnownScore 0.7 capped at PureAICap 0.6
	assert.InDelta(t, 0.6, ranked[0].Confidence, 1e-9)
	assert.Equal(t, []string{"ai"}, ranked[0].Sources)
	assert.False(t, ranked[0].AutoMoveEligible)
}

func TestRank_NewFolderPenalty(t *testing.T) {
	ranked := Rank(RankInput{
		AIProposals: []string{"Screenshots"},
	}, DefaultTuning())

	require.Len(t, ranked, 1)
	// min(0.4, 0.6) * 0.6 = 0.24
	assert.InDelta(t, 0.24, ranked[0].Confidence, 1e-9)
	assert.Equal(t, []string{"ai-new"}, ranked[0].Sources)
}

func TestRank_NewFolderSuppressedByStrongKnown(t *testing.T) {
	ranked := Rank(RankInput{
		ProjectHits:  []memory.Hit{hit("Docs", 0.8)},
		AIProposals:  []string{"Brand-New"},
		KnownFolders: []string{"Docs"},
	}, DefaultTuning())

	require.Len(t, ranked, 1)
	assert.Equal(t, "Docs", ranked[0].Folder)
}

func TestRank_NewFolderAdmittedWhenKnownWeak(t *testing.T) {
	// Best known-backed confidence 0.1*0.75 + 0.9*0.25 = 0.3 < cutoff 0.35
	ranked := Rank(RankInput{
		ProjectHits:  []memory.Hit{hit("Docs", 0.1)},
		AIProposals:  []string{"Brand-New"},
		KnownFolders: []string{"Docs"},
	}, DefaultTuning())

	require.Len(t, ranked, 2)
	folders := []string{ranked[0].Folder, ranked[1].Folder}
	assert.Contains(t, folders, "Brand-New")
}

func TestRank_NewFolderAdmittedWhenNoKnownFolders(t *testing.T) {
	ranked := Rank(RankInput{
		AIProposals: []string{"Brand-New"},
	}, DefaultTuning())

	require.Len(t, ranked, 1)
	assert.Equal(t, "Brand-New", ranked[0].Folder)
}

func TestRank_GlobalRequiresProjectSignal(t *testing.T) {
	ranked := Rank(RankInput{
		GlobalHits: []memory.Hit{hit("Docs", 0.9)},
	}, DefaultTuning())
	assert.Empty(t, ranked, "global hits alone carry no signal")

	ranked = Rank(RankInput{
		ProjectHits: []memory.Hit{hit("Archive", 0.5)},
		GlobalHits:  []memory.Hit{hit("Docs", 0.9)},
	}, DefaultTuning())
	require.Len(t, ranked, 2)
	assert.Equal(t, "Docs", ranked[0].Folder)
	assert.Equal(t, []string{"global"}, ranked[0].Sources)
}

func TestRank_AutoMoveRequiresMemoryBacking(t *testing.T) {
	// Pure AI can never clear the default threshold: the PureAICap
	// holds it at 0.6 regardless of the model score.
	ranked := Rank(RankInput{
		AIProposals:  []string{"Docs"},
		KnownFolders: []string{"Docs"},
	}, DefaultTuning())
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.6, ranked[0].Confidence, 1e-9)
	assert.False(t, ranked[0].AutoMoveEligible)

	// A perfect project match clears it without model agreement.
	ranked = Rank(RankInput{
		ProjectHits:  []memory.Hit{hit("Docs", 1.0)},
		KnownFolders: []string{"Docs"},
	}, DefaultTuning())
	require.Len(t, ranked, 1)
	assert.True(t, ranked[0].AutoMoveEligible)
}

func TestRank_MemoryOnlyReachesAutoMoveAtDefaults(t *testing.T) {
	// 1.0*0.75 + 0.9*0.25 = 0.975 >= the default 0.95 threshold.
	ranked := Rank(RankInput{
		ProjectHits: []memory.Hit{hit("Docs", 1.0)},
	}, DefaultTuning())
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.975, ranked[0].Confidence, 1e-9)
	assert.Equal(t, []string{"project"}, ranked[0].Sources)
	assert.True(t, ranked[0].AutoMoveEligible)

	// 0.9*0.75 + 0.9*0.25 = 0.9 stays below it.
	ranked = Rank(RankInput{
		ProjectHits: []memory.Hit{hit("Docs", 0.9)},
	}, DefaultTuning())
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.9, ranked[0].Confidence, 1e-9)
	assert.False(t, ranked[0].AutoMoveEligible)
}

func TestRank_ColdStoreStableTieOrder(t *testing.T) {
	// Empty memory, two known-folder proposals: both land at the
	// PureAICap and keep proposal order.
	ranked := Rank(RankInput{
		AIProposals:  []string{"Docs", "Archive"},
		KnownFolders: []string{"Archive", "Docs"},
	}, DefaultTuning())

	require.Len(t, ranked, 2)
	assert.Equal(t, "Docs", ranked[0].Folder)
	assert.Equal(t, "Archive", ranked[1].Folder)
	assert.InDelta(t, ranked[0].Confidence, ranked[1].Confidence, 1e-9)
}

func TestRank_Truncation(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxSuggestions = 2

	ranked := Rank(RankInput{
		ProjectHits: []memory.Hit{
			hit("A", 0.9), hit("B", 0.8), hit("C", 0.7), hit("D", 0.6),
		},
	}, tuning)

	require.Len(t, ranked, 2)
	assert.Equal(t, "A", ranked[0].Folder)
	assert.Equal(t, "B", ranked[1].Folder)
}

func TestRank_DeduplicatesAcrossSources(t *testing.T) {
	ranked := Rank(RankInput{
		ProjectHits:  []memory.Hit{hit("Docs", 0.4), hit("Docs", 0.6)},
		GlobalHits:   []memory.Hit{hit("Docs", 0.5)},
		AIProposals:  []string{"Docs", "Docs"},
		KnownFolders: []string{"Docs"},
	}, DefaultTuning())

	require.Len(t, ranked, 1)
	s := ranked[0]
	assert.Equal(t, []string{"ai", "global", "project"}, s.Sources)
	// Highest memory score across duplicates wins.
	assert.InDelta(t, 0.6, s.MemoryScore, 1e-9)
}

func TestRank_SanitizedProposalMatchesKnown(t *testing.T) {
	ranked := Rank(RankInput{
		AIProposals:  []string{`"My Docs"`},
		KnownFolders: []string{"My Docs"},
	}, DefaultTuning())

	require.Len(t, ranked, 1)
	assert.Equal(t, "My-Docs", ranked[0].Folder)
	assert.Equal(t, []string{"ai"}, ranked[0].Sources)
}

func TestRank_EmptyInput(t *testing.T) {
	assert.Empty(t, Rank(RankInput{}, DefaultTuning()))
}

func TestSuggestionHasSource(t *testing.T) {
	s := Suggestion{Sources: []string{"ai", "project"}}
	assert.True(t, s.HasSource("project"))
	assert.False(t, s.HasSource("global"))
}

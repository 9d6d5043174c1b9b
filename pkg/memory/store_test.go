package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)

	s, err := NewStore(Config{
		ProjectDBPath: filepath.Join(dir, "project.db"),
		GlobalDBPath:  filepath.Join(dir, "global.db"),
		Logger:        logger,
	})
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })
	return s
}

func vec(vals ...float32) []float32 {
	return vals
}

func TestNewStore_RequiresProjectPath(t *testing.T) {
	_, err := NewStore(Config{})
	assert.Error(t, err)
}

func TestGetSimilar_EmptyStore(t *testing.T) {
	s := createTestStore(t)

	hits, err := s.GetSimilar(context.Background(), vec(1, 0, 0), ScopeProject, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestGetSimilar_OrdersByScore(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Orthogonal, opposite and aligned records relative to the query
	records := []Decision{
		{Embedding: vec(0, 1, 0), TargetFolder: "Orthogonal", Confidence: 0.5},
		{Embedding: vec(-1, 0, 0), TargetFolder: "Opposite", Confidence: 0.5},
		{Embedding: vec(1, 0, 0), TargetFolder: "Aligned", Confidence: 0.5},
	}
	for _, d := range records {
		require.NoError(t, s.RecordDecision(ctx, d, nil))
	}

	hits, err := s.GetSimilar(ctx, vec(1, 0, 0), ScopeProject, 5)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "Aligned", hits[0].TargetFolder)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, "Orthogonal", hits[1].TargetFolder)
	assert.Equal(t, "Opposite", hits[2].TargetFolder)
}

func TestGetSimilar_TiesKeepInsertionOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, folder := range []string{"First", "Second", "Third"} {
		require.NoError(t, s.RecordDecision(ctx, Decision{
			Embedding:    vec(1, 0),
			TargetFolder: folder,
			Confidence:   0.5,
		}, nil))
	}

	hits, err := s.GetSimilar(ctx, vec(1, 0), ScopeProject, 5)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "First", hits[0].TargetFolder)
	assert.Equal(t, "Second", hits[1].TargetFolder)
	assert.Equal(t, "Third", hits[2].TargetFolder)
}

func TestGetSimilar_RespectsLimit(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, s.RecordDecision(ctx, Decision{
			Embedding:    vec(1, float32(i)),
			TargetFolder: "Docs",
			Confidence:   0.5,
		}, nil))
	}

	hits, err := s.GetSimilar(ctx, vec(1, 0), ScopeProject, 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestGetSimilar_SkipsCorruptRows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordDecision(ctx, Decision{
		Embedding:    vec(1, 0),
		TargetFolder: "Healthy",
		Confidence:   0.5,
	}, nil))

	// Corrupt blobs: wrong width and empty
	_, err := s.project.db.Exec(
		`INSERT INTO decisions (scope, extension, tokens, target_folder, embedding, confidence)
		 VALUES ('project', '', '', 'Broken', ?, 0.5)`, []byte{1, 2, 3})
	require.NoError(t, err)
	_, err = s.project.db.Exec(
		`INSERT INTO decisions (scope, extension, tokens, target_folder, embedding, confidence)
		 VALUES ('project', '', '', 'Empty', ?, 0.5)`, []byte{})
	require.NoError(t, err)

	hits, err := s.GetSimilar(ctx, vec(1, 0), ScopeProject, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Healthy", hits[0].TargetFolder)
}

func TestRecordDecision_PromotionLadder(t *testing.T) {
	tests := []struct {
		name         string
		confidence   float64
		askResponse  *bool // nil means no callback supplied
		wantInGlobal bool
	}{
		{name: "high confidence promotes unconditionally", confidence: 0.9, wantInGlobal: true},
		{name: "low confidence stays project-only", confidence: 0.5, wantInGlobal: false},
		{name: "medium confidence without callback stays project-only", confidence: 0.7, wantInGlobal: false},
		{name: "medium confidence with approval promotes", confidence: 0.7, askResponse: boolPtr(true), wantInGlobal: true},
		{name: "medium confidence with denial stays project-only", confidence: 0.7, askResponse: boolPtr(false), wantInGlobal: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestStore(t)
			ctx := context.Background()

			var ask AskGlobalFunc
			if tt.askResponse != nil {
				ask = func(DecisionSummary) bool { return *tt.askResponse }
			}

			err := s.RecordDecision(ctx, Decision{
				Embedding:    vec(1, 0),
				Extension:    ".pdf",
				Tokens:       []string{"report"},
				TargetFolder: "Docs",
				Confidence:   tt.confidence,
			}, ask)
			require.NoError(t, err)

			projectCount, err := s.Count(ScopeProject)
			require.NoError(t, err)
			assert.Equal(t, 1, projectCount, "decision must always land in project memory")

			globalCount, err := s.Count(ScopeGlobal)
			require.NoError(t, err)
			if tt.wantInGlobal {
				assert.Equal(t, 1, globalCount)
			} else {
				assert.Equal(t, 0, globalCount)
			}
		})
	}
}

func TestRecordDecision_ConfiguredAskThreshold(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(Config{
		ProjectDBPath:      filepath.Join(dir, "project.db"),
		GlobalDBPath:       filepath.Join(dir, "global.db"),
		AskGlobalThreshold: 0.8,
		Logger:             zerolog.New(os.Stdout).Level(zerolog.Disabled),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	asked := false
	ask := func(DecisionSummary) bool {
		asked = true
		return true
	}

	// 0.7 clears the default ask threshold but not the configured one:
	// the callback must never fire.
	err = s.RecordDecision(context.Background(), Decision{
		Embedding:    vec(1, 0),
		Extension:    ".pdf",
		TargetFolder: "Docs",
		Confidence:   0.7,
	}, ask)
	require.NoError(t, err)
	assert.False(t, asked)

	globalCount, err := s.Count(ScopeGlobal)
	require.NoError(t, err)
	assert.Equal(t, 0, globalCount)

	// 0.8 reaches it.
	err = s.RecordDecision(context.Background(), Decision{
		Embedding:    vec(1, 0),
		Extension:    ".pdf",
		TargetFolder: "Docs",
		Confidence:   0.8,
	}, ask)
	require.NoError(t, err)
	assert.True(t, asked)

	globalCount, err = s.Count(ScopeGlobal)
	require.NoError(t, err)
	assert.Equal(t, 1, globalCount)
}

func TestRecordDecision_CallbackSeesSummary(t *testing.T) {
	s := createTestStore(t)

	var got DecisionSummary
	ask := func(sum DecisionSummary) bool {
		got = sum
		return false
	}

	err := s.RecordDecision(context.Background(), Decision{
		Embedding:    vec(1, 0),
		Extension:    ".txt",
		Tokens:       []string{"meeting", "notes"},
		TargetFolder: "Work/Notes",
		Confidence:   0.7,
	}, ask)
	require.NoError(t, err)

	assert.Equal(t, ".txt", got.Extension)
	assert.Equal(t, []string{"meeting", "notes"}, got.Tokens)
	assert.Equal(t, "Work/Notes", got.TargetFolder)
	assert.InDelta(t, 0.7, got.Confidence, 1e-9)
}

func TestRecordDecision_Validation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.RecordDecision(ctx, Decision{Embedding: vec(1), TargetFolder: ""}, nil)
	assert.Error(t, err)

	err = s.RecordDecision(ctx, Decision{TargetFolder: "Docs"}, nil)
	assert.Error(t, err)
}

func TestScopeIsolation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Project-only record (confidence below every promotion threshold)
	require.NoError(t, s.RecordDecision(ctx, Decision{
		Embedding:    vec(1, 0),
		TargetFolder: "ProjectOnly",
		Confidence:   0.3,
	}, nil))

	projectHits, err := s.GetSimilar(ctx, vec(1, 0), ScopeProject, 5)
	require.NoError(t, err)
	require.Len(t, projectHits, 1)

	globalHits, err := s.GetSimilar(ctx, vec(1, 0), ScopeGlobal, 5)
	require.NoError(t, err)
	assert.Empty(t, globalHits, "project-only record must never surface from global scope")
}

func TestClear(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordDecision(ctx, Decision{
		Embedding:    vec(1, 0),
		TargetFolder: "Docs",
		Confidence:   0.9, // lands in both scopes
	}, nil))

	require.NoError(t, s.Clear(ScopeProject))
	projectCount, _ := s.Count(ScopeProject)
	globalCount, _ := s.Count(ScopeGlobal)
	assert.Equal(t, 0, projectCount)
	assert.Equal(t, 1, globalCount)

	require.NoError(t, s.Clear(ScopeAll))
	globalCount, _ = s.Count(ScopeGlobal)
	assert.Equal(t, 0, globalCount)

	// Idempotent on empty stores
	require.NoError(t, s.Clear(ScopeAll))
}

func TestHitMetadataRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordDecision(ctx, Decision{
		Embedding:            vec(1, 0),
		Extension:            ".pdf",
		Tokens:               []string{"tax", "return", "2024"},
		TargetFolder:         "Finance/Taxes",
		DirectoryDescription: "Tax filings and receipts",
		Confidence:           0.82,
	}, nil))

	hits, err := s.GetSimilar(ctx, vec(1, 0), ScopeProject, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	h := hits[0]
	assert.Equal(t, ".pdf", h.Extension)
	assert.Equal(t, []string{"tax", "return", "2024"}, h.Tokens)
	assert.Equal(t, "Finance/Taxes", h.TargetFolder)
	assert.Equal(t, "Tax filings and receipts", h.DirectoryDescription)
	assert.InDelta(t, 0.82, h.Confidence, 1e-9)
}

func boolPtr(b bool) *bool { return &b }

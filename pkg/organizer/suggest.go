package organizer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/akinus/organize/pkg/ai"
	"github.com/akinus/organize/pkg/memory"
	"github.com/akinus/organize/pkg/scanner"
)

const defaultModelTimeout = 60 * time.Second

// Engine produces ranked folder suggestions for one file at a time by
// fusing decision memory with model proposals. Model and embedding
// failures degrade the ranking instead of failing it: the engine runs
// on whatever signal is left.
type Engine struct {
	store        *memory.Store
	provider     ai.Provider
	tuning       Tuning
	modelTimeout time.Duration
	logger       zerolog.Logger
}

// EngineConfig holds suggestion engine configuration.
type EngineConfig struct {
	Store    *memory.Store
	Provider ai.Provider
	Tuning   Tuning
	// ModelTimeout bounds each embedding/completion call. Timeout is
	// treated as a model failure.
	ModelTimeout time.Duration
	Logger       zerolog.Logger
}

// NewEngine creates a suggestion engine.
func NewEngine(cfg EngineConfig) *Engine {
	timeout := cfg.ModelTimeout
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	return &Engine{
		store:        cfg.Store,
		provider:     cfg.Provider,
		tuning:       cfg.Tuning,
		modelTimeout: timeout,
		logger:       cfg.Logger.With().Str("component", "suggestion-engine").Logger(),
	}
}

// Result carries the ranked suggestions plus the query-side artifacts
// the orchestrator reuses when recording the final decision.
type Result struct {
	Suggestions []Suggestion
	// Embedding is nil when the embedding call failed; without it no
	// decision can be recorded.
	Embedding []float32
	Tokens    []string
}

// Suggest returns ranked destination suggestions for a file among the
// given destination folders. An empty suggestion list means "nothing
// actionable"; the only error returned is context cancellation.
func (e *Engine) Suggest(ctx context.Context, file scanner.FileContext, destinations []scanner.DirectoryContext) (Result, error) {
	result := Result{Tokens: Tokenize(file.Name)}

	embedding := e.buildEmbedding(ctx, file, destinations)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	result.Embedding = embedding

	var projectHits, globalHits []memory.Hit
	if embedding != nil {
		var err error
		projectHits, err = e.store.GetSimilar(ctx, embedding, memory.ScopeProject, e.tuning.MemoryLimit)
		if err != nil {
			e.logger.Warn().Err(err).Str("file", file.Name).Msg("Project memory retrieval failed")
		}
		if len(projectHits) > 0 {
			globalHits, err = e.store.GetSimilar(ctx, embedding, memory.ScopeGlobal, e.tuning.MemoryLimit)
			if err != nil {
				e.logger.Warn().Err(err).Str("file", file.Name).Msg("Global memory retrieval failed")
			}
		}
	}

	knownFolders := knownFolderNames(destinations)

	proposals := e.proposeFolders(ctx, file, result.Tokens, knownFolders)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result.Suggestions = Rank(RankInput{
		ProjectHits:  projectHits,
		GlobalHits:   globalHits,
		AIProposals:  proposals,
		KnownFolders: knownFolders,
	}, e.tuning)

	e.logger.Debug().
		Str("file", file.Name).
		Int("project_hits", len(projectHits)).
		Int("global_hits", len(globalHits)).
		Int("proposals", len(proposals)).
		Int("suggestions", len(result.Suggestions)).
		Msg("Suggestion pass completed")

	return result, nil
}

// buildEmbedding embeds the file's metadata plus the destination
// descriptions. Returns nil on failure; the caller degrades to an
// AI-only ranking.
func (e *Engine) buildEmbedding(ctx context.Context, file scanner.FileContext, destinations []scanner.DirectoryContext) []float32 {
	parts := []string{file.Name, file.Extension, file.MimeType}
	for _, d := range destinations {
		if d.Description != "" {
			parts = append(parts, d.Description)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.modelTimeout)
	defer cancel()

	embedding, err := e.provider.Embed(callCtx, strings.Join(parts, " "))
	if err != nil {
		e.logger.Warn().Err(err).Str("file", file.Name).Msg("Embedding failed, ranking without memory")
		return nil
	}
	return embedding
}

// proposeFolders asks the model for destination candidates. Returns nil
// on failure; the caller degrades to memory-only ranking.
func (e *Engine) proposeFolders(ctx context.Context, file scanner.FileContext, tokens, knownFolders []string) []string {
	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "unknown"
	}

	prompt := fmt.Sprintf(`You are organizing files on a Linux system.

Known folders:
%s

File:
Name: %s
Type: %s
Tokens: %s

Suggest up to %d folder names.
Respond with one folder per line.`,
		strings.Join(knownFolders, "\n"),
		file.Name,
		mimeType,
		strings.Join(tokens, ", "),
		e.tuning.MaxSuggestions,
	)

	callCtx, cancel := context.WithTimeout(ctx, e.modelTimeout)
	defer cancel()

	raw, err := e.provider.Complete(callCtx, prompt)
	if err != nil {
		e.logger.Warn().Err(err).Str("file", file.Name).Msg("Model proposal failed, ranking memory-only")
		return nil
	}
	return ParseProposals(raw)
}

func knownFolderNames(destinations []scanner.DirectoryContext) []string {
	seen := map[string]bool{}
	var names []string
	for _, d := range destinations {
		if d.Name == "" {
			continue
		}
		if s := SanitizeFolder(d.Name); s != "" && !seen[s] {
			seen[s] = true
			names = append(names, s)
		}
	}
	sort.Strings(names)
	return names
}

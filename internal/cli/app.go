package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/akinus/organize/internal/config"
	"github.com/akinus/organize/internal/logger"
	"github.com/akinus/organize/pkg/ai"
	"github.com/akinus/organize/pkg/docs"
	"github.com/akinus/organize/pkg/memory"
	"github.com/akinus/organize/pkg/organizer"
	"github.com/akinus/organize/pkg/scanner"
	"github.com/akinus/organize/pkg/trash"
)

// app bundles everything a command needs for one invocation.
type app struct {
	root     string
	settings *config.Settings
	log      *logger.Logger
	provider ai.Provider
	store    *memory.Store
	bin      *trash.Bin
	engine   *organizer.Engine
	tuning   organizer.Tuning
}

// newApp loads settings and constructs the shared components. Config
// errors are the only fatal startup failures.
func newApp() (*app, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	settings, err := config.NewLoader(root).Load()
	if err != nil {
		return nil, err
	}

	level := settings.Logging.Level
	if logLevel != "" {
		level = logLevel
	}

	log, err := logger.New(logger.Config{
		Level:   level,
		File:    settings.Logging.File,
		Console: true,
		Pretty:  true,
	})
	if err != nil {
		return nil, err
	}

	provider, err := buildProvider(settings)
	if err != nil {
		log.Close()
		return nil, err
	}

	store, err := memory.NewStore(memory.Config{
		ProjectDBPath:      filepath.Join(root, config.SettingsDir, "project.db"),
		AskGlobalThreshold: settings.Behavior.AskGlobalThreshold,
		Logger:             log.GetZerolog(),
	})
	if err != nil {
		log.Close()
		return nil, err
	}

	tuning := organizer.DefaultTuning()
	tuning.AutoMoveThreshold = settings.Behavior.AutoMoveThreshold

	return &app{
		root:     root,
		settings: settings,
		log:      log,
		provider: provider,
		store:    store,
		bin:      trash.NewBin(root, log.GetZerolog()),
		engine: organizer.NewEngine(organizer.EngineConfig{
			Store:    store,
			Provider: provider,
			Tuning:   tuning,
			Logger:   log.GetZerolog(),
		}),
		tuning: tuning,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("Failed to close memory store")
	}
	a.log.Close()
}

func (a *app) logger() zerolog.Logger {
	return a.log.GetZerolog()
}

// summaryCache returns the directory summary machinery, or nil
// summarizer when summaries are disabled.
func (a *app) summaryCache() (*docs.Cache, docs.Summarizer) {
	if !a.settings.AI.EnableDirectorySummaries {
		return nil, nil
	}
	gen := docs.NewGenerator(a.provider)
	return docs.NewCache(a.logger()), gen.Summarizer()
}

// scanOptions builds the scanner options from settings.
func (a *app) scanOptions() scanner.Options {
	cache, summarize := a.summaryCache()
	return scanner.Options{
		Ignore:    scanner.NewIgnoreRules(a.settings.Scan.Ignore),
		MaxDepth:  a.settings.Scan.MaxDepth,
		Summaries: cache,
		Summarize: summarize,
		Logger:    a.logger(),
	}
}

// buildProvider constructs the model backend selected in settings. The
// anthropic backend has no embedding endpoint, so it borrows ollama
// for embeddings.
func buildProvider(settings *config.Settings) (ai.Provider, error) {
	aiCfg := settings.AI
	switch aiCfg.Provider {
	case "", "ollama":
		return ai.NewOllamaProvider(ai.OllamaConfig{
			BaseURL:    aiCfg.BaseURL,
			ChatModel:  aiCfg.Model,
			EmbedModel: aiCfg.EmbedModel,
		}), nil
	case "openai":
		return ai.NewOpenAIProvider(ai.OpenAIConfig{
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			ChatModel:  aiCfg.Model,
			EmbedModel: aiCfg.EmbedModel,
		}), nil
	case "anthropic":
		embedder := ai.NewOllamaProvider(ai.OllamaConfig{
			BaseURL:    aiCfg.BaseURL,
			EmbedModel: aiCfg.EmbedModel,
		})
		return ai.NewAnthropicProvider(ai.AnthropicConfig{
			APIKey:   os.Getenv("ANTHROPIC_API_KEY"),
			Model:    aiCfg.Model,
			Embedder: embedder,
		})
	default:
		return nil, fmt.Errorf("unknown AI provider %q", aiCfg.Provider)
	}
}

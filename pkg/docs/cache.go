package docs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Summarizer produces a natural-language description of a directory,
// usually through a model call.
type Summarizer func(ctx context.Context, dir string) (string, error)

// cacheEntry is the sidecar file format.
type cacheEntry struct {
	Fingerprint string `json:"fingerprint"`
	Summary     string `json:"summary"`
}

// Cache is the fingerprint-keyed directory summary cache. Validity is
// entirely content-defined: an entry holds as long as the directory's
// fingerprint has not moved, so the cache self-heals after manual
// edits, external tooling, or partial failures.
type Cache struct {
	logger zerolog.Logger
}

// NewCache creates a directory summary cache.
func NewCache(logger zerolog.Logger) *Cache {
	return &Cache{
		logger: logger.With().Str("component", "summary-cache").Logger(),
	}
}

// GetOrRefresh returns the directory's summary, regenerating through
// summarize only when the directory's content fingerprint has changed.
// A summarizer failure yields ("", false) and never an error: a
// description failure must not break the broader scan. The sidecar
// write is best-effort.
func (c *Cache) GetOrRefresh(ctx context.Context, dir string, summarize Summarizer) (string, bool) {
	fingerprint, err := Fingerprint(dir)
	if err != nil {
		c.logger.Warn().Err(err).Str("dir", dir).Msg("Fingerprint failed, skipping summary")
		return "", false
	}

	sidecarPath := filepath.Join(dir, SidecarName)

	// Corrupt or unreadable sidecar is just a miss
	if data, err := os.ReadFile(sidecarPath); err == nil {
		var cached cacheEntry
		if err := json.Unmarshal(data, &cached); err == nil && cached.Fingerprint == fingerprint {
			return cached.Summary, true
		}
	}

	summary, err := summarize(ctx, dir)
	if err != nil {
		c.logger.Warn().Err(err).Str("dir", dir).Msg("Summary generation failed")
		return "", false
	}

	if err := c.writeSidecar(sidecarPath, cacheEntry{Fingerprint: fingerprint, Summary: summary}); err != nil {
		c.logger.Warn().Err(err).Str("dir", dir).Msg("Summary cache write failed")
	}

	return summary, true
}

// Invalidate drops the cached summary so the next GetOrRefresh
// regenerates it. A missing sidecar is not an error.
func (c *Cache) Invalidate(dir string) error {
	err := os.Remove(filepath.Join(dir, SidecarName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *Cache) writeSidecar(path string, entry cacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

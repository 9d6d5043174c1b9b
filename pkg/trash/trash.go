// Package trash provides a reversible delete: files move into a
// date-bucketed trash directory inside the workspace and are purged
// permanently only after a retention period.
package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DirName is the trash directory created under the workspace root.
	DirName = ".ai_organize_trash"

	dateLayout = "2006-01-02"

	readmeContent = "# AI Organize Trash\n\n" +
		"Files moved here were deleted by organize.\n" +
		"Subfolders are date-based.\n\n" +
		"This folder is auto-cleaned based on retention policy.\n"
)

// Bin manages the trash directory of one workspace.
type Bin struct {
	root   string
	logger zerolog.Logger

	// now is swapped in tests.
	now func() time.Time
}

// NewBin creates a trash bin rooted at workspaceRoot. The trash
// directory itself is created lazily on first use.
func NewBin(workspaceRoot string, logger zerolog.Logger) *Bin {
	return &Bin{
		root:   filepath.Join(workspaceRoot, DirName),
		logger: logger.With().Str("component", "trash").Logger(),
		now:    time.Now,
	}
}

// Root returns the trash directory path.
func (b *Bin) Root() string {
	return b.root
}

func (b *Bin) ensureRoot() error {
	if err := os.MkdirAll(b.root, 0755); err != nil {
		return fmt.Errorf("failed to create trash directory: %w", err)
	}

	readme := filepath.Join(b.root, "README.md")
	if _, err := os.Stat(readme); os.IsNotExist(err) {
		if err := os.WriteFile(readme, []byte(readmeContent), 0644); err != nil {
			return fmt.Errorf("failed to write trash readme: %w", err)
		}
	}
	return nil
}

// Discard moves the file into today's trash bucket and returns the new
// path. Name collisions get a numeric suffix before the extension.
func (b *Bin) Discard(path string) (string, error) {
	if err := b.ensureRoot(); err != nil {
		return "", err
	}

	bucket := filepath.Join(b.root, b.now().Format(dateLayout))
	if err := os.MkdirAll(bucket, 0755); err != nil {
		return "", fmt.Errorf("failed to create trash bucket: %w", err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	dest := filepath.Join(bucket, base)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(bucket, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("failed to move file to trash: %w", err)
	}

	b.logger.Info().Str("from", path).Str("to", dest).Msg("Moved file to trash")
	return dest, nil
}

// Cleanup permanently deletes date buckets older than retentionDays.
// Non-date entries in the trash root are left alone.
func (b *Bin) Cleanup(retentionDays int) error {
	if err := b.ensureRoot(); err != nil {
		return err
	}

	// Compare whole days: a bucket from today never expires, even
	// with zero retention.
	now := b.now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(b.root)
	if err != nil {
		return fmt.Errorf("failed to read trash directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		bucketDate, err := time.Parse(dateLayout, entry.Name())
		if err != nil {
			continue
		}
		if bucketDate.Before(cutoff) {
			path := filepath.Join(b.root, entry.Name())
			if err := os.RemoveAll(path); err != nil {
				b.logger.Warn().Err(err).Str("bucket", entry.Name()).Msg("Failed to clean trash bucket")
				continue
			}
			b.logger.Info().Str("bucket", entry.Name()).Msg("Cleaned trash bucket")
		}
	}
	return nil
}

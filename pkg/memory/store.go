package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/akinus/organize/pkg/ai"
)

// Scope identifies one of the two decision memory partitions.
type Scope string

const (
	// ScopeProject holds decisions local to the current workspace.
	ScopeProject Scope = "project"
	// ScopeGlobal holds decisions shared across workspaces.
	ScopeGlobal Scope = "global"
	// ScopeAll addresses both stores; only valid for Clear.
	ScopeAll Scope = "all"
)

// Default promotion thresholds for the global scope. A decision at or
// above the auto threshold is copied to global memory unconditionally;
// one at or above the ask threshold is copied only if the
// caller-supplied callback approves. Global memory is never the default
// destination.
const (
	AutoGlobalThreshold = 0.85
	AskGlobalThreshold  = 0.60
)

// Decision is one placement to record.
type Decision struct {
	Embedding            []float32
	Extension            string
	Tokens               []string
	TargetFolder         string
	DirectoryDescription string
	Confidence           float64
}

// DecisionSummary is what the ask-globally callback sees.
type DecisionSummary struct {
	Extension    string
	Tokens       []string
	TargetFolder string
	Confidence   float64
}

// AskGlobalFunc decides whether a medium-confidence decision may be
// promoted to global memory. Injected by the caller so the store never
// touches a terminal itself.
type AskGlobalFunc func(DecisionSummary) bool

// Hit is one retrieval result: the similarity score plus the stored
// decision metadata.
type Hit struct {
	Score                float64
	Extension            string
	Tokens               []string
	TargetFolder         string
	DirectoryDescription string
	Confidence           float64
}

// scopeDB wraps one sqlite database with single-writer multiple-reader
// serialization.
type scopeDB struct {
	db *sql.DB
	mu sync.RWMutex
}

// Store is the dual-scope decision memory.
type Store struct {
	project       *scopeDB
	global        *scopeDB
	autoThreshold float64
	askThreshold  float64
	logger        zerolog.Logger
}

// Config holds decision store configuration.
type Config struct {
	// ProjectDBPath is the workspace-local database, required.
	ProjectDBPath string
	// GlobalDBPath defaults to ~/.local/share/organize/global.db.
	GlobalDBPath string
	// AutoGlobalThreshold and AskGlobalThreshold override the promotion
	// ladder; zero means the package default.
	AutoGlobalThreshold float64
	AskGlobalThreshold  float64
	Logger              zerolog.Logger
}

// DefaultGlobalDBPath returns the cross-workspace database location.
func DefaultGlobalDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "organize", "global.db"), nil
}

// NewStore opens (or creates) both scope databases.
func NewStore(cfg Config) (*Store, error) {
	if cfg.ProjectDBPath == "" {
		return nil, errors.New("project database path is required")
	}

	globalPath := cfg.GlobalDBPath
	if globalPath == "" {
		var err error
		globalPath, err = DefaultGlobalDBPath()
		if err != nil {
			return nil, err
		}
	}

	project, err := openScopeDB(cfg.ProjectDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open project store: %w", err)
	}

	global, err := openScopeDB(globalPath)
	if err != nil {
		project.db.Close()
		return nil, fmt.Errorf("failed to open global store: %w", err)
	}

	s := &Store{
		project:       project,
		global:        global,
		autoThreshold: cfg.AutoGlobalThreshold,
		askThreshold:  cfg.AskGlobalThreshold,
		logger:        cfg.Logger.With().Str("component", "decision-memory").Logger(),
	}
	if s.autoThreshold == 0 {
		s.autoThreshold = AutoGlobalThreshold
	}
	if s.askThreshold == 0 {
		s.askThreshold = AskGlobalThreshold
	}

	s.logger.Debug().
		Str("project_db", cfg.ProjectDBPath).
		Str("global_db", globalPath).
		Msg("Decision memory opened")

	return s, nil
}

func openScopeDB(path string) (*scopeDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps concurrent readers cheap
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scope TEXT NOT NULL,
			extension TEXT,
			tokens TEXT,
			target_folder TEXT NOT NULL,
			directory_description TEXT,
			embedding BLOB NOT NULL,
			confidence REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &scopeDB{db: db}, nil
}

func (s *Store) scopeDB(scope Scope) (*scopeDB, error) {
	switch scope {
	case ScopeProject:
		return s.project, nil
	case ScopeGlobal:
		return s.global, nil
	default:
		return nil, fmt.Errorf("invalid scope %q", scope)
	}
}

// GetSimilar scans every record in the given scope, scores it against
// the query embedding by cosine similarity, and returns at most limit
// hits sorted descending by score. Ties keep insertion order. A corrupt
// row is skipped, never aborts the scan.
func (s *Store) GetSimilar(ctx context.Context, embedding []float32, scope Scope, limit int) ([]Hit, error) {
	sdb, err := s.scopeDB(scope)
	if err != nil {
		return nil, err
	}

	sdb.mu.RLock()
	defer sdb.mu.RUnlock()

	rows, err := sdb.db.QueryContext(ctx, `
		SELECT extension, tokens, target_folder, directory_description, embedding, confidence
		FROM decisions
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s memory: %w", scope, err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			ext, tokens sql.NullString
			folder      string
			desc        sql.NullString
			blob        []byte
			confidence  float64
		)
		if err := rows.Scan(&ext, &tokens, &folder, &desc, &blob, &confidence); err != nil {
			s.logger.Warn().Err(err).Str("scope", string(scope)).Msg("Skipping unreadable decision row")
			continue
		}

		stored, err := decodeEmbedding(blob)
		if err != nil {
			s.logger.Warn().Err(err).Str("scope", string(scope)).Str("folder", folder).
				Msg("Skipping decision row with corrupt embedding")
			continue
		}

		hits = append(hits, Hit{
			Score:                ai.Cosine(embedding, stored),
			Extension:            ext.String,
			Tokens:               splitTokens(tokens.String),
			TargetFolder:         folder,
			DirectoryDescription: desc.String,
			Confidence:           confidence,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s memory: %w", scope, err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// RecordDecision inserts the decision into project memory and applies
// the one-way global promotion ladder: confidence at or above the auto
// threshold promotes unconditionally; at or above the ask threshold it
// promotes only when askGlobal approves.
func (s *Store) RecordDecision(ctx context.Context, d Decision, askGlobal AskGlobalFunc) error {
	if d.TargetFolder == "" {
		return errors.New("target folder is required")
	}
	if len(d.Embedding) == 0 {
		return errors.New("embedding is required")
	}

	if err := s.insert(ctx, s.project, ScopeProject, d); err != nil {
		return fmt.Errorf("failed to record project decision: %w", err)
	}

	promote := false
	switch {
	case d.Confidence >= s.autoThreshold:
		promote = true
	case d.Confidence >= s.askThreshold && askGlobal != nil:
		promote = askGlobal(DecisionSummary{
			Extension:    d.Extension,
			Tokens:       d.Tokens,
			TargetFolder: d.TargetFolder,
			Confidence:   d.Confidence,
		})
	}

	if promote {
		if err := s.insert(ctx, s.global, ScopeGlobal, d); err != nil {
			return fmt.Errorf("failed to record global decision: %w", err)
		}
		s.logger.Debug().Str("folder", d.TargetFolder).Float64("confidence", d.Confidence).
			Msg("Decision promoted to global memory")
	}

	return nil
}

func (s *Store) insert(ctx context.Context, sdb *scopeDB, scope Scope, d Decision) error {
	sdb.mu.Lock()
	defer sdb.mu.Unlock()

	_, err := sdb.db.ExecContext(ctx, `
		INSERT INTO decisions
		(scope, extension, tokens, target_folder, directory_description, embedding, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		string(scope),
		d.Extension,
		strings.Join(d.Tokens, " "),
		d.TargetFolder,
		d.DirectoryDescription,
		encodeEmbedding(d.Embedding),
		d.Confidence,
	)
	return err
}

// Clear truncates the store(s) addressed by scope. Idempotent.
func (s *Store) Clear(scope Scope) error {
	clearOne := func(sdb *scopeDB) error {
		sdb.mu.Lock()
		defer sdb.mu.Unlock()
		_, err := sdb.db.Exec("DELETE FROM decisions")
		return err
	}

	switch scope {
	case ScopeProject:
		return clearOne(s.project)
	case ScopeGlobal:
		return clearOne(s.global)
	case ScopeAll:
		if err := clearOne(s.project); err != nil {
			return err
		}
		return clearOne(s.global)
	default:
		return fmt.Errorf("invalid scope %q", scope)
	}
}

// Count returns the number of decisions in a scope.
func (s *Store) Count(scope Scope) (int, error) {
	sdb, err := s.scopeDB(scope)
	if err != nil {
		return 0, err
	}

	sdb.mu.RLock()
	defer sdb.mu.RUnlock()

	var n int
	if err := sdb.db.QueryRow("SELECT COUNT(*) FROM decisions").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes both databases.
func (s *Store) Close() error {
	var errs []error
	if err := s.project.db.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.global.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func splitTokens(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Fields(joined)
}

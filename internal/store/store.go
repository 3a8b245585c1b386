package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andreicstoica/refract/internal/domain"
)

// DefaultKey is the snapshot key used by the single-editor application.
const DefaultKey = "editor"

// ErrNotFound is returned by Load when no snapshot exists under the key.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the persisted editor state.
type Snapshot struct {
	FullText  string
	Sentences []domain.Sentence
	Themes    []domain.Theme
}

// Store persists snapshots in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database. The caller retains ownership of db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save replaces the snapshot under key atomically.
func (s *Store) Save(ctx context.Context, key string, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting save transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Cascades clear sentences, themes and theme_chunks for this key.
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clearing old snapshot: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (key, full_text, updated_at) VALUES (?, ?, ?)`,
		key, snap.FullText, now); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	for i, sent := range snap.Sentences {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sentences (snapshot_key, position, id, text, start_index, end_index)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			key, i, sent.ID, sent.Text, sent.StartIndex, sent.EndIndex); err != nil {
			return fmt.Errorf("inserting sentence %d: %w", i, err)
		}
	}

	for i, theme := range snap.Themes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO themes (snapshot_key, position, id, label, description, color, confidence)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			key, i, theme.ID, theme.Label, theme.Description, theme.Color, theme.Confidence); err != nil {
			return fmt.Errorf("inserting theme %d: %w", i, err)
		}
		for j, ch := range theme.Chunks {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO theme_chunks (snapshot_key, theme_id, position, id, text, sentence_id, correlation)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				key, theme.ID, j, ch.ID, ch.Text, ch.SentenceID, ch.Correlation); err != nil {
				return fmt.Errorf("inserting theme chunk %d/%d: %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	committed = true
	return nil
}

// Load reads the snapshot under key. Any persisted theme whose chunks lack a
// numeric correlation is treated as stale and discarded, forcing regeneration.
func (s *Store) Load(ctx context.Context, key string) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRowContext(ctx,
		`SELECT full_text FROM snapshots WHERE key = ?`, key).Scan(&snap.FullText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if snap.Sentences, err = s.loadSentences(ctx, key); err != nil {
		return nil, err
	}
	if snap.Themes, err = s.loadThemes(ctx, key); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Store) loadSentences(ctx context.Context, key string) ([]domain.Sentence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, start_index, end_index
		 FROM sentences WHERE snapshot_key = ? ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("loading sentences: %w", err)
	}
	defer rows.Close()

	var out []domain.Sentence
	for rows.Next() {
		var sent domain.Sentence
		if err := rows.Scan(&sent.ID, &sent.Text, &sent.StartIndex, &sent.EndIndex); err != nil {
			return nil, fmt.Errorf("scanning sentence: %w", err)
		}
		out = append(out, sent)
	}
	return out, rows.Err()
}

// loadThemes reads themes and their chunks in two sequential queries. Each
// query fully drains its cursor before the next one starts: overlapping
// queries would run on separate pooled connections, and with ":memory:" every
// pooled connection is its own empty database.
func (s *Store) loadThemes(ctx context.Context, key string) ([]domain.Theme, error) {
	themes, err := s.scanThemes(ctx, key)
	if err != nil || len(themes) == 0 {
		return themes, err
	}

	chunksByTheme, stale, err := s.scanThemeChunks(ctx, key)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Theme, 0, len(themes))
	for _, theme := range themes {
		if stale[theme.ID] {
			continue
		}
		theme.Chunks = chunksByTheme[theme.ID]
		out = append(out, theme)
	}
	return out, nil
}

func (s *Store) scanThemes(ctx context.Context, key string) ([]domain.Theme, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, description, color, confidence
		 FROM themes WHERE snapshot_key = ? ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("loading themes: %w", err)
	}
	defer rows.Close()

	var out []domain.Theme
	for rows.Next() {
		var theme domain.Theme
		if err := rows.Scan(&theme.ID, &theme.Label, &theme.Description, &theme.Color, &theme.Confidence); err != nil {
			return nil, fmt.Errorf("scanning theme: %w", err)
		}
		out = append(out, theme)
	}
	return out, rows.Err()
}

// scanThemeChunks loads every chunk for the snapshot in one query, grouped by
// theme. A theme is marked stale when any of its chunks has a NULL
// correlation: rows written before correlations were tracked cannot drive
// highlight intensity, so the whole theme must be regenerated.
func (s *Store) scanThemeChunks(ctx context.Context, key string) (map[string][]domain.ThemeChunk, map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT theme_id, id, text, sentence_id, correlation
		 FROM theme_chunks WHERE snapshot_key = ? ORDER BY theme_id, position`, key)
	if err != nil {
		return nil, nil, fmt.Errorf("loading theme chunks: %w", err)
	}
	defer rows.Close()

	chunks := make(map[string][]domain.ThemeChunk)
	stale := make(map[string]bool)
	for rows.Next() {
		var themeID string
		var ch domain.ThemeChunk
		var corr sql.NullFloat64
		if err := rows.Scan(&themeID, &ch.ID, &ch.Text, &ch.SentenceID, &corr); err != nil {
			return nil, nil, fmt.Errorf("scanning theme chunk: %w", err)
		}
		if !corr.Valid {
			stale[themeID] = true
			continue
		}
		ch.Correlation = corr.Float64
		chunks[themeID] = append(chunks[themeID], ch)
	}
	return chunks, stale, rows.Err()
}

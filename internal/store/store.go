// Package store is the SQLite data access layer: the catalog of generated
// artworks and the generation event log. One database file, opened with the
// production pragma set (WAL, busy_timeout, foreign keys).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/colorpaps/internal/idgen"
)

// Schema is applied on every Open; all statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS artworks (
    id              TEXT PRIMARY KEY,
    mode            TEXT NOT NULL,
    colors_json     TEXT NOT NULL,
    count           INTEGER NOT NULL,
    total_available INTEGER NOT NULL DEFAULT 0,
    preview_path    TEXT NOT NULL,
    full_path       TEXT NOT NULL DEFAULT '',
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artworks_mode_time ON artworks(mode, created_at DESC);

CREATE TABLE IF NOT EXISTS generation_events (
    event_id      TEXT PRIMARY KEY,
    artwork_id    TEXT NOT NULL DEFAULT '',
    mode          TEXT NOT NULL,
    action        TEXT NOT NULL,
    success       INTEGER NOT NULL,
    error_message TEXT NOT NULL DEFAULT '',
    duration_ms   INTEGER NOT NULL DEFAULT 0,
    created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_time ON generation_events(created_at);
`

// Artwork is one catalog entry for a generated composition.
type Artwork struct {
	ID             string   `json:"artwork_id"`
	Mode           string   `json:"mode"`
	Colors         []string `json:"colors"`
	Count          int      `json:"count"`
	TotalAvailable int      `json:"total_available"`
	PreviewPath    string   `json:"preview"`
	FullPath       string   `json:"full,omitempty"`
	CreatedAt      int64    `json:"created_at"`
}

// Event is one generation_events row.
type Event struct {
	EventID      string
	ArtworkID    string
	Mode         string
	Action       string
	Success      bool
	ErrorMessage string
	DurationMS   int64
}

// Store wraps the colorpaps database.
type Store struct {
	DB       *sql.DB
	newArtID idgen.Generator
	newEvtID idgen.Generator
}

// New creates a Store from an already-opened database and applies the
// schema.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{
		DB:       db,
		newArtID: idgen.Prefixed("art_", idgen.Default),
		newEvtID: idgen.Prefixed("evt_", idgen.Default),
	}, nil
}

// InsertArtwork records a generated composition and assigns its ID.
func (s *Store) InsertArtwork(ctx context.Context, a *Artwork) error {
	if a.ID == "" {
		a.ID = s.newArtID()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}
	colorsJSON, err := json.Marshal(a.Colors)
	if err != nil {
		return fmt.Errorf("marshal colors: %w", err)
	}
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO artworks (id, mode, colors_json, count, total_available,
		preview_path, full_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Mode, string(colorsJSON), a.Count, a.TotalAvailable,
		a.PreviewPath, a.FullPath, a.CreatedAt,
	)
	return err
}

// GetArtwork retrieves an artwork by ID, nil when absent.
func (s *Store) GetArtwork(ctx context.Context, id string) (*Artwork, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, mode, colors_json, count, total_available, preview_path,
		full_path, created_at FROM artworks WHERE id = ?`, id)
	return scanArtwork(row)
}

// ListArtworks returns recent catalog entries, newest first. An empty mode
// lists every mode.
func (s *Store) ListArtworks(ctx context.Context, mode string, limit int) ([]*Artwork, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `SELECT id, mode, colors_json, count, total_available, preview_path,
		full_path, created_at FROM artworks`
	args := []any{}
	if mode != "" {
		query += ` WHERE mode = ?`
		args = append(args, mode)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Artwork
	for rows.Next() {
		a, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArtwork(row scanner) (*Artwork, error) {
	var a Artwork
	var colorsJSON string
	err := row.Scan(&a.ID, &a.Mode, &colorsJSON, &a.Count, &a.TotalAvailable,
		&a.PreviewPath, &a.FullPath, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan artwork: %w", err)
	}
	if err := json.Unmarshal([]byte(colorsJSON), &a.Colors); err != nil {
		return nil, fmt.Errorf("parse colors of %s: %w", a.ID, err)
	}
	return &a, nil
}

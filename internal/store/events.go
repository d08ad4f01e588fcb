package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// LogEvent records a generation event. Non-blocking semantics: a failing
// event insert is logged via slog but never propagated, so observability can
// not break generation itself.
func (s *Store) LogEvent(ctx context.Context, e Event) {
	if e.EventID == "" {
		e.EventID = s.newEvtID()
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO generation_events (event_id, artwork_id, mode, action,
		success, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EventID, e.ArtworkID, e.Mode, e.Action,
		e.Success, e.ErrorMessage, e.DurationMS, time.Now().Unix(),
	)
	if err != nil {
		slog.Error("generation event log failed", "error", err, "action", e.Action)
	}
}

// CountEvents returns the number of logged events, optionally filtered by
// action.
func (s *Store) CountEvents(ctx context.Context, action string) (int, error) {
	var n int
	var err error
	if action == "" {
		err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM generation_events`).Scan(&n)
	} else {
		err = s.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM generation_events WHERE action = ?`, action).Scan(&n)
	}
	return n, err
}

// Cleanup deletes generation events older than days. Zero or negative days
// disables cleanup.
func (s *Store) Cleanup(ctx context.Context, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().Unix() - int64(days)*86400
	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM generation_events WHERE created_at < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup generation_events: %w", err)
	}
	return nil
}

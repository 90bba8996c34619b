package analysiscache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"humspine/internal/rational"
)

const summaryColumns = "id, path, content_hash, valid, parse_error, max_track, line_count, score_duration, tpq, analyzed_at"

// Put inserts s, replacing any earlier summary for the same content hash.
// The earlier row keeps its ID.
func (s *Store) Put(ctx context.Context, summary Summary) error {
	ctx = ensureContext(ctx)
	summary.ContentHash = strings.TrimSpace(summary.ContentHash)
	if summary.ContentHash == "" {
		return errors.New("content hash cannot be empty")
	}
	if summary.ID == "" {
		return errors.New("summary id cannot be empty")
	}
	if summary.AnalyzedAt.IsZero() {
		summary.AnalyzedAt = time.Now().UTC()
	}

	return s.withWriteLock(ctx, func() error {
		_, err := s.execWithRetry(ctx, `
INSERT INTO analyses (`+summaryColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(content_hash) DO UPDATE SET
    path = excluded.path,
    valid = excluded.valid,
    parse_error = excluded.parse_error,
    max_track = excluded.max_track,
    line_count = excluded.line_count,
    score_duration = excluded.score_duration,
    tpq = excluded.tpq,
    analyzed_at = excluded.analyzed_at`,
			summary.ID,
			summary.Path,
			summary.ContentHash,
			boolToInt(summary.Valid),
			nullableString(summary.ParseError),
			summary.MaxTrack,
			summary.LineCount,
			summary.ScoreDuration.String(),
			summary.TPQ,
			summary.AnalyzedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("put summary: %w", err)
		}
		return nil
	})
}

// Get returns the summary for contentHash, or nil when none is cached.
func (s *Store) Get(ctx context.Context, contentHash string) (*Summary, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+summaryColumns+` FROM analyses WHERE content_hash = ?`,
		strings.TrimSpace(contentHash),
	)
	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return summary, nil
}

// List returns summaries newest first. A limit of zero or less returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+summaryColumns+` FROM analyses ORDER BY analyzed_at DESC, path LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("list summaries: %w", err)
		}
		out = append(out, *summary)
	}
	return out, rows.Err()
}

// Clear removes every summary and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := s.withWriteLock(ctx, func() error {
		res, err := s.execWithRetry(ctx, `DELETE FROM analyses`)
		if err != nil {
			return fmt.Errorf("clear summaries: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	return removed, err
}

func scanSummary(scanner interface{ Scan(dest ...any) error }) (*Summary, error) {
	var (
		summary     Summary
		valid       int
		parseError  sql.NullString
		durationRaw string
		analyzedRaw string
	)
	if err := scanner.Scan(
		&summary.ID,
		&summary.Path,
		&summary.ContentHash,
		&valid,
		&parseError,
		&summary.MaxTrack,
		&summary.LineCount,
		&durationRaw,
		&summary.TPQ,
		&analyzedRaw,
	); err != nil {
		return nil, err
	}
	summary.Valid = valid != 0
	summary.ParseError = parseError.String

	duration, err := rational.Parse(durationRaw)
	if err != nil {
		return nil, fmt.Errorf("parse score duration %q: %w", durationRaw, err)
	}
	summary.ScoreDuration = duration

	analyzedAt, err := time.Parse(time.RFC3339Nano, analyzedRaw)
	if err != nil {
		return nil, fmt.Errorf("parse analyzed_at %q: %w", analyzedRaw, err)
	}
	summary.AnalyzedAt = analyzedAt
	return &summary, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

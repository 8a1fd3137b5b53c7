// Package tracker records which résumé documents have been seen and how
// far each one got. Documents are keyed by content hash so renamed or
// copied files are never processed twice.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Status is a document's processing state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
)

// Entry is one tracked document. SourceDir is the label directory the
// file was discovered under, kept so a failed document's category stays
// recoverable from the tracker alone.
type Entry struct {
	ID          uuid.UUID
	SourceDir   string
	Filename    string
	ContentHash string
	Status      Status
	Error       string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// Tracker wraps the documents table.
type Tracker struct {
	pool *pgxpool.Pool
}

// New returns a Tracker using the given connection pool.
func New(pool *pgxpool.Pool) *Tracker {
	return &Tracker{pool: pool}
}

// EnsureSchema creates the documents table if it does not exist.
func (t *Tracker) EnsureSchema(ctx context.Context) error {
	_, err := t.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			source_dir TEXT NOT NULL,
			filename TEXT NOT NULL,
			content_hash TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'pending',
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			processed_at TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// FindByHash returns the entry with the given content hash, or nil when
// the document has never been seen.
func (t *Tracker) FindByHash(ctx context.Context, hash string) (*Entry, error) {
	var e Entry
	var errMsg *string
	err := t.pool.QueryRow(ctx,
		`SELECT id, source_dir, filename, content_hash, status, error, created_at, processed_at
		 FROM documents WHERE content_hash = $1`,
		hash,
	).Scan(&e.ID, &e.SourceDir, &e.Filename, &e.ContentHash, &e.Status, &errMsg, &e.CreatedAt, &e.ProcessedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	if errMsg != nil {
		e.Error = *errMsg
	}
	return &e, nil
}

// InsertPending registers new documents as pending in a single batch.
// Hashes already present are left untouched. Returns the number of rows
// actually inserted.
func (t *Tracker) InsertPending(ctx context.Context, entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO documents (source_dir, filename, content_hash, status)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (content_hash) DO NOTHING`,
			e.SourceDir, e.Filename, e.ContentHash, StatusPending,
		)
	}

	results := t.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range entries {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert pending document: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// MarkProcessed transitions a document to processed and clears any
// previous error.
func (t *Tracker) MarkProcessed(ctx context.Context, hash string) error {
	tag, err := t.pool.Exec(ctx,
		`UPDATE documents SET status = $1, error = NULL, processed_at = NOW()
		 WHERE content_hash = $2`,
		StatusProcessed, hash,
	)
	if err != nil {
		return fmt.Errorf("failed to mark document processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document not found: %s", hash)
	}
	return nil
}

// MarkFailed transitions a document to failed, recording the cause.
// Failed documents are never retried automatically.
func (t *Tracker) MarkFailed(ctx context.Context, hash, cause string) error {
	tag, err := t.pool.Exec(ctx,
		`UPDATE documents SET status = $1, error = $2, processed_at = NOW()
		 WHERE content_hash = $3`,
		StatusFailed, cause, hash,
	)
	if err != nil {
		return fmt.Errorf("failed to mark document failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document not found: %s", hash)
	}
	return nil
}

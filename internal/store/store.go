// Package store persists extracted feature records to PostgreSQL. Scalar
// features live in resume_features; the per-entry embeddings go to child
// vector tables so similarity queries can run directly in the database.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/asalazar/cv-features/internal/types"
)

// vectorDim matches the output size of the text-embedding-004 model.
const vectorDim = 768

// Store wraps the feature tables.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store using the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the feature tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;

		CREATE TABLE IF NOT EXISTS resume_features (
			file_key TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			exp_years DOUBLE PRECISION NOT NULL,
			exp_years_management DOUBLE PRECISION NOT NULL,
			avg_time_in_job DOUBLE PRECISION NOT NULL,
			highest_education INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS work_embeddings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			file_key TEXT NOT NULL REFERENCES resume_features(file_key) ON DELETE CASCADE,
			position INT NOT NULL,
			work_counter INT NOT NULL,
			management INT NOT NULL,
			title vector(%[1]d),
			institution vector(%[1]d),
			brief vector(%[1]d)
		);

		CREATE TABLE IF NOT EXISTS certification_embeddings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			file_key TEXT NOT NULL REFERENCES resume_features(file_key) ON DELETE CASCADE,
			position INT NOT NULL,
			title vector(%[1]d),
			brief vector(%[1]d)
		);

		CREATE TABLE IF NOT EXISTS education_embeddings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			file_key TEXT NOT NULL REFERENCES resume_features(file_key) ON DELETE CASCADE,
			kind TEXT NOT NULL CHECK (kind IN ('bachelor', 'max')),
			title vector(%[1]d),
			institution vector(%[1]d)
		)`, vectorDim))
	if err != nil {
		return fmt.Errorf("failed to create feature tables: %w", err)
	}
	return nil
}

// Save writes a complete feature record in one transaction. Records are
// immutable once written; saving an existing file key fails.
func (s *Store) Save(ctx context.Context, rec types.FeatureRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO resume_features
			(file_key, label, exp_years, exp_years_management, avg_time_in_job, highest_education)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.FileKey, rec.Label, rec.ExperienceYears, rec.ManagementExperienceYears,
		rec.AverageJobTenureYears, rec.HighestEducationLevel,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resume features: %w", err)
	}

	for i, w := range rec.Work {
		_, err = tx.Exec(ctx,
			`INSERT INTO work_embeddings
				(file_key, position, work_counter, management, title, institution, brief)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.FileKey, i, w.WorkCounter, w.Management,
			toVector(w.Title), toVector(w.Institution), toVector(w.Brief),
		)
		if err != nil {
			return fmt.Errorf("failed to insert work embedding %d: %w", i, err)
		}
	}

	for i, c := range rec.Certifications {
		_, err = tx.Exec(ctx,
			`INSERT INTO certification_embeddings (file_key, position, title, brief)
			 VALUES ($1, $2, $3, $4)`,
			rec.FileKey, i, toVector(c.Title), toVector(c.Brief),
		)
		if err != nil {
			return fmt.Errorf("failed to insert certification embedding %d: %w", i, err)
		}
	}

	if err := s.insertDegree(ctx, tx, rec.FileKey, "bachelor", rec.Bachelor); err != nil {
		return err
	}
	if err := s.insertDegree(ctx, tx, rec.FileKey, "max", rec.MaxEducation); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit feature record: %w", err)
	}
	return nil
}

func (s *Store) insertDegree(ctx context.Context, tx pgx.Tx, fileKey, kind string, d *types.EmbeddedDegree) error {
	if d == nil {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO education_embeddings (file_key, kind, title, institution)
		 VALUES ($1, $2, $3, $4)`,
		fileKey, kind, toVector(d.Title), toVector(d.Institution),
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s education embedding: %w", kind, err)
	}
	return nil
}

// Exists reports whether a feature record with the given file key is
// already stored.
func (s *Store) Exists(ctx context.Context, fileKey string) (bool, error) {
	var found bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM resume_features WHERE file_key = $1)`,
		fileKey,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check feature record: %w", err)
	}
	return found, nil
}

func toVector(v []float32) any {
	if len(v) == 0 {
		return nil
	}
	return pgvector.NewVector(v)
}

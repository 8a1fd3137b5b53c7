//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asalazar/cv-features/internal/types"
)

// These tests require a running PostgreSQL database with the pgvector
// extension available. Set TEST_DATABASE_URL to run them.

func getTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	s := New(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	// Clean up test data before each test
	_, _ = pool.Exec(ctx, "DELETE FROM resume_features WHERE file_key LIKE 'testdoc%'")

	return s
}

func testVector() []float32 {
	v := make([]float32, 768)
	for i := range v {
		v[i] = float32(i) / 768
	}
	return v
}

func TestIntegration_SaveAndExists(t *testing.T) {
	s := getTestStore(t)
	ctx := context.Background()

	rec := types.FeatureRecord{
		FileKey:                   "testdoc_a.pdf//hash_a",
		ExperienceYears:           6.2,
		ManagementExperienceYears: 1.4,
		AverageJobTenureYears:     2.0,
		HighestEducationLevel:     types.LevelBachelor,
		Label:                     "engineering",
		Work: []types.EmbeddedWork{
			{Title: testVector(), Institution: testVector(), Brief: testVector(), Management: 1, WorkCounter: 0},
			{Title: testVector(), Institution: testVector(), Brief: testVector(), Management: 0, WorkCounter: 1},
		},
		Certifications: []types.EmbeddedCertification{
			{Title: testVector(), Brief: testVector()},
		},
		Bachelor: &types.EmbeddedDegree{Title: testVector(), Institution: testVector()},
	}

	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := s.Exists(ctx, rec.FileKey)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !found {
		t.Error("Expected record to exist after Save")
	}

	// Records are immutable, a second save of the same key must fail
	if err := s.Save(ctx, rec); err == nil {
		t.Error("Expected duplicate Save to fail")
	}
}

func TestIntegration_ExistsUnknownKey(t *testing.T) {
	s := getTestStore(t)

	found, err := s.Exists(context.Background(), "testdoc_never_stored//hash")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if found {
		t.Error("Expected unknown key to not exist")
	}
}

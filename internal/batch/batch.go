// Package batch orchestrates a full extraction run: discovering résumé
// documents under a labeled directory tree, deciding which are new, and
// pushing each pending document through the extract, model, parse and
// embed stages before persisting its features.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/asalazar/cv-features/internal/embedding"
	"github.com/asalazar/cv-features/internal/features"
	"github.com/asalazar/cv-features/internal/llm"
	"github.com/asalazar/cv-features/internal/parsing"
	"github.com/asalazar/cv-features/internal/tracker"
	"github.com/asalazar/cv-features/internal/types"
)

// Tracker is the document state machine the runner drives.
type Tracker interface {
	FindByHash(ctx context.Context, hash string) (*tracker.Entry, error)
	InsertPending(ctx context.Context, entries []tracker.Entry) (int, error)
	MarkProcessed(ctx context.Context, hash string) error
	MarkFailed(ctx context.Context, hash, cause string) error
}

// ResultStore persists finished feature records.
type ResultStore interface {
	Save(ctx context.Context, rec types.FeatureRecord) error
}

// Snapshotter mirrors the raw parsed records to audit files, keyed by
// filename.
type Snapshotter interface {
	Write(filename string, resume parsing.Resume) (string, error)
}

// Extractor turns a document path into plain text plus its reference time.
type Extractor interface {
	Extract(ctx context.Context, path string) (time.Time, string, error)
}

// Runner executes extraction runs.
type Runner struct {
	root      string
	workers   int
	tracker   Tracker
	store     ResultStore
	snapshots Snapshotter
	extractor Extractor
	model     llm.Client
	embedder  embedding.Embedder
	parser    *parsing.Parser
	log       *zap.Logger
}

// Options configures a Runner.
type Options struct {
	Root      string
	Workers   int
	Tracker   Tracker
	Store     ResultStore
	Snapshots Snapshotter
	Extractor Extractor
	Model     llm.Client
	Embedder  embedding.Embedder
	Log       *zap.Logger
}

// NewRunner builds a Runner from its collaborators.
func NewRunner(opts Options) *Runner {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		root:      opts.Root,
		workers:   workers,
		tracker:   opts.Tracker,
		store:     opts.Store,
		snapshots: opts.Snapshots,
		extractor: opts.Extractor,
		model:     opts.Model,
		embedder:  opts.Embedder,
		parser:    parsing.NewParser(opts.Log),
		log:       opts.Log,
	}
}

// Summary reports what a run did.
type Summary struct {
	Discovered int
	Inserted   int
	Processed  int64
	Failed     int64
	Skipped    int
}

// Run discovers documents under the root and processes everything
// pending. Individual document failures are recorded and isolated; Run
// only returns an error when the run as a whole cannot proceed.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	runID := uuid.New()
	log := r.log.With(zap.String("run_id", runID.String()))

	categories, err := listCategories(r.root)
	if err != nil {
		return Summary{}, err
	}

	docs, summary, err := r.discover(ctx, log, categories)
	if err != nil {
		return summary, err
	}

	var processed, failed atomic.Int64
	for _, cat := range categories {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		for _, doc := range docs {
			if doc.label != cat.label {
				continue
			}
			doc := doc
			g.Go(func() error {
				if r.processOne(gctx, log, doc) {
					processed.Add(1)
				} else {
					failed.Add(1)
				}
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			summary.Processed = processed.Load()
			summary.Failed = failed.Load()
			return summary, err
		}
	}

	summary.Processed = processed.Load()
	summary.Failed = failed.Load()
	log.Info("run finished",
		zap.Int64("processed", summary.Processed),
		zap.Int64("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

// processOne runs the full pipeline for a single document and records
// the outcome. Returns true on success.
func (r *Runner) processOne(ctx context.Context, log *zap.Logger, doc document) bool {
	log = log.With(zap.String("file", filepath.Base(doc.path)), zap.String("label", doc.label))

	rec, resume, err := r.extractFeatures(ctx, doc)
	if err != nil {
		log.Error("document failed", zap.Error(err))
		if mErr := r.tracker.MarkFailed(ctx, doc.hash, err.Error()); mErr != nil {
			log.Error("could not record failure", zap.Error(mErr))
		}
		return false
	}

	if err := r.store.Save(ctx, rec); err != nil {
		log.Error("document failed", zap.Error(err))
		if mErr := r.tracker.MarkFailed(ctx, doc.hash, err.Error()); mErr != nil {
			log.Error("could not record failure", zap.Error(mErr))
		}
		return false
	}

	if r.snapshots != nil {
		if _, err := r.snapshots.Write(filepath.Base(doc.path), resume); err != nil {
			log.Warn("snapshot not written", zap.Error(err))
		}
	}

	if err := r.tracker.MarkProcessed(ctx, doc.hash); err != nil {
		log.Error("could not mark processed", zap.Error(err))
		return false
	}

	log.Info("document processed",
		zap.Float64("exp_years", rec.ExperienceYears),
		zap.Int("work_entries", len(rec.Work)))
	return true
}

// extractFeatures is the pure pipeline: text, model response, parsed
// records, aggregated scalars, embeddings. The parsed records come back
// alongside the feature record so the caller can snapshot them.
func (r *Runner) extractFeatures(ctx context.Context, doc document) (types.FeatureRecord, parsing.Resume, error) {
	createdAt, text, err := r.extractor.Extract(ctx, doc.path)
	if err != nil {
		return types.FeatureRecord{}, parsing.Resume{}, fmt.Errorf("extracting text: %w", err)
	}

	response, err := r.model.ExtractResume(ctx, text)
	if err != nil {
		return types.FeatureRecord{}, parsing.Resume{}, fmt.Errorf("querying model: %w", err)
	}

	resume := r.parser.Parse(response, createdAt)

	work, err := embedding.EmbedWorks(ctx, r.embedder, resume.Work)
	if err != nil {
		return types.FeatureRecord{}, resume, fmt.Errorf("embedding work entries: %w", err)
	}
	certs, err := embedding.EmbedCertifications(ctx, r.embedder, resume.Certifications)
	if err != nil {
		return types.FeatureRecord{}, resume, fmt.Errorf("embedding certifications: %w", err)
	}
	edu, err := embedding.EmbedEducation(ctx, r.embedder, resume.Education)
	if err != nil {
		return types.FeatureRecord{}, resume, fmt.Errorf("embedding education: %w", err)
	}

	return types.FeatureRecord{
		FileKey:                   fileKey(doc),
		ExperienceYears:           features.ExperienceYears(resume.Work, false),
		ManagementExperienceYears: features.ExperienceYears(resume.Work, true),
		AverageJobTenureYears:     features.AverageTenureYears(resume.Work),
		HighestEducationLevel:     edu.HighestLevel,
		Work:                      work,
		Certifications:            certs,
		Bachelor:                  edu.Bachelor,
		MaxEducation:              edu.MaxEducation,
		Label:                     doc.label,
	}, resume, nil
}

func fileKey(doc document) string {
	return filepath.Base(doc.path) + "//" + doc.hash
}

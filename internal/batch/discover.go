package batch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/asalazar/cv-features/internal/tracker"
)

// category is one labeled subdirectory of the résumé root.
type category struct {
	label string
	dir   string
	files []string
}

// document is one file scheduled for processing.
type document struct {
	path  string
	label string
	hash  string
}

// decision classifies a discovered file against the tracker.
type decision int

const (
	decisionNew decision = iota
	decisionPending
	decisionProcessed
	decisionFailed
	decisionError
)

type finding struct {
	doc  document
	what decision
	err  error
}

// listCategories reads the root's immediate subdirectories. Each one is
// a label; its regular files are the candidate documents.
func listCategories(root string) ([]category, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading resume root %s: %w", root, err)
	}

	var categories []category
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, e.Name())
		files, err := listFiles(dir)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category{label: e.Name(), dir: dir, files: files})
	}
	return categories, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading category %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// discover hashes every candidate file and checks it against the tracker
// in parallel, then reconciles the findings in a single pass: new
// documents are registered as pending, already-processed and failed ones
// are skipped. The documents returned are the ones to process now.
func (r *Runner) discover(ctx context.Context, log *zap.Logger, categories []category) ([]document, Summary, error) {
	total := 0
	for _, cat := range categories {
		total += len(cat.files)
	}
	findings := make([]finding, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	i := 0
	for _, cat := range categories {
		for _, path := range cat.files {
			idx, path, label := i, path, cat.label
			i++
			g.Go(func() error {
				findings[idx] = r.classify(gctx, path, label)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	summary := Summary{Discovered: total}
	var toInsert []tracker.Entry
	var toProcess []document
	seen := make(map[string]bool)
	for _, f := range findings {
		switch f.what {
		case decisionError:
			log.Error("could not classify document",
				zap.String("file", filepath.Base(f.doc.path)), zap.Error(f.err))
			summary.Skipped++
		case decisionProcessed:
			summary.Skipped++
		case decisionFailed:
			log.Warn("document previously failed, not retrying",
				zap.String("file", filepath.Base(f.doc.path)))
			summary.Skipped++
		case decisionNew, decisionPending:
			// Two files with identical bytes in the same run share a
			// content hash; only the first is processed.
			if seen[f.doc.hash] {
				log.Warn("duplicate document content, skipping",
					zap.String("file", filepath.Base(f.doc.path)))
				summary.Skipped++
				continue
			}
			seen[f.doc.hash] = true
			if f.what == decisionNew {
				toInsert = append(toInsert, tracker.Entry{
					SourceDir:   f.doc.label,
					Filename:    filepath.Base(f.doc.path),
					ContentHash: f.doc.hash,
				})
			}
			toProcess = append(toProcess, f.doc)
		}
	}

	inserted, err := r.tracker.InsertPending(ctx, toInsert)
	if err != nil {
		return nil, summary, fmt.Errorf("registering new documents: %w", err)
	}
	summary.Inserted = inserted

	log.Info("discovery finished",
		zap.Int("discovered", total),
		zap.Int("new", len(toInsert)),
		zap.Int("to_process", len(toProcess)),
		zap.Int("skipped", summary.Skipped))
	return toProcess, summary, nil
}

// classify is side-effect free: it only reads the file and the tracker.
func (r *Runner) classify(ctx context.Context, path, label string) finding {
	hash, err := hashFile(path)
	if err != nil {
		return finding{doc: document{path: path, label: label}, what: decisionError, err: err}
	}
	doc := document{path: path, label: label, hash: hash}

	entry, err := r.tracker.FindByHash(ctx, hash)
	if err != nil {
		return finding{doc: doc, what: decisionError, err: err}
	}
	if entry == nil {
		return finding{doc: doc, what: decisionNew}
	}
	switch entry.Status {
	case tracker.StatusProcessed:
		return finding{doc: doc, what: decisionProcessed}
	case tracker.StatusFailed:
		return finding{doc: doc, what: decisionFailed}
	default:
		return finding{doc: doc, what: decisionPending}
	}
}

// hashFile returns the hex MD5 of the file's content.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Package extract pulls plain text out of résumé documents. Local
// conversion handles the common formats; when a document yields almost
// nothing (scanned PDFs mostly) extraction falls back to a cloud OCR
// reader when one is configured.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"code.sajari.com/docconv"
	"go.uber.org/zap"
)

// ErrNotEnoughElements reports a document whose local conversion produced
// too little content to be usable and no OCR fallback was available.
var ErrNotEnoughElements = errors.New("not enough elements found")

// elementThreshold is the maximum number of structural elements a
// conversion may produce before it is considered empty enough for OCR.
const elementThreshold = 3

// Reader is a cloud OCR capability used when local conversion fails.
type Reader interface {
	Read(ctx context.Context, path string) (string, error)
}

// Extractor converts résumé documents to plain text.
type Extractor struct {
	ocr Reader
	log *zap.Logger
}

// New returns an Extractor. ocr may be nil, in which case sparse
// documents fail with ErrNotEnoughElements instead of falling back.
func New(ocr Reader, log *zap.Logger) *Extractor {
	return &Extractor{ocr: ocr, log: log}
}

var convertible = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".rtf":  true,
	".odt":  true,
}

// Extract returns the document's reference timestamp (its modification
// time, used later to resolve "Present" end dates) and its plain text.
func (e *Extractor) Extract(ctx context.Context, path string) (time.Time, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("stat %s: %w", path, err)
	}
	createdAt := info.ModTime()

	ext := strings.ToLower(filepath.Ext(path))
	var text string
	switch {
	case convertible[ext]:
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("converting %s: %w", path, err)
		}
		text = res.Body
	case ext == ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("reading %s: %w", path, err)
		}
		text = string(content)
	default:
		return time.Time{}, "", fmt.Errorf("unsupported file type %s", ext)
	}

	if CountElements(text) <= elementThreshold {
		if e.ocr == nil {
			return time.Time{}, "", ErrNotEnoughElements
		}
		e.log.Info("local extraction too sparse, using OCR", zap.String("file", filepath.Base(path)))
		text, err = e.ocr.Read(ctx, path)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("ocr fallback for %s: %w", path, err)
		}
	}

	return createdAt, SquashNewlines(text), nil
}

// CountElements counts the structural elements of a conversion, one per
// non-blank line.
func CountElements(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

var newlineRuns = regexp.MustCompile(`\n+`)

// SquashNewlines collapses runs of blank lines left behind by document
// converters.
func SquashNewlines(text string) string {
	return newlineRuns.ReplaceAllString(text, "\n")
}

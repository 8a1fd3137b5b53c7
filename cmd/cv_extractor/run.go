package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/asalazar/cv-features/internal/batch"
	"github.com/asalazar/cv-features/internal/config"
	"github.com/asalazar/cv-features/internal/embedding"
	"github.com/asalazar/cv-features/internal/extract"
	"github.com/asalazar/cv-features/internal/llm"
	"github.com/asalazar/cv-features/internal/logger"
	"github.com/asalazar/cv-features/internal/store"
	"github.com/asalazar/cv-features/internal/tracker"
)

const (
	promptYes = "Yes"
	promptNo  = "No"
)

var (
	runYes   bool
	runJSON  bool
	runDebug bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Discover and process résumé documents under the configured root",
	RunE:  runExtraction,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "do not ask for confirmation before processing")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "log in JSON instead of console format")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "enable debug logging")
}

func runExtraction(cmd *cobra.Command, _ []string) error {
	log, err := logger.New(runJSON, runDebug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := printCategories(cmd, cfg.ResumeRoot); err != nil {
		return err
	}
	if !runYes {
		ok, err := confirm()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	ctx := cmd.Context()
	pool, err := connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	tr := tracker.New(pool)
	if err := tr.EnsureSchema(ctx); err != nil {
		return err
	}
	st := store.New(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	snapshots, err := store.NewSnapshotWriter(cfg.SnapshotDir)
	if err != nil {
		return err
	}

	model, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return fmt.Errorf("creating model client: %w", err)
	}
	defer model.Close()

	embedder, err := embedding.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	var ocr extract.Reader
	if cfg.OCREnabled() {
		ocr = extract.NewAzureReader(cfg.AzureEndpoint, cfg.AzureKey)
		log.Info("OCR fallback enabled")
	}

	runner := batch.NewRunner(batch.Options{
		Root:      cfg.ResumeRoot,
		Workers:   cfg.Workers,
		Tracker:   tr,
		Store:     st,
		Snapshots: snapshots,
		Extractor: extract.New(ocr, log),
		Model:     model,
		Embedder:  embedder,
		Log:       log,
	})

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Discovered %d documents (%d new). Processed %d, failed %d, skipped %d.\n",
		summary.Discovered, summary.Inserted, summary.Processed, summary.Failed, summary.Skipped)
	return nil
}

// printCategories shows what a run would cover before asking for
// confirmation: one line per label with its document count.
func printCategories(cmd *cobra.Command, root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("reading resume root %s: %w", root, err)
	}

	total := 0
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, e.Name()))
		if err != nil {
			return fmt.Errorf("reading category %s: %w", e.Name(), err)
		}
		count := 0
		for _, f := range files {
			if !f.IsDir() && !strings.HasPrefix(f.Name(), ".") {
				count++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d documents\n", e.Name(), count)
		total += count
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Total: %d documents\n", total)
	return nil
}

func confirm() (bool, error) {
	prompt := promptui.Select{
		Label: "Proceed?",
		Items: []string{promptYes, promptNo},
	}
	_, answer, err := prompt.Run()
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return answer == promptYes, nil
}

func connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

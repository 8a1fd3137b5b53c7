// Package main provides the entry point for the résumé feature extractor.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cv_extractor",
	Short: "Batch feature extraction for résumé documents",
	Long: `cv_extractor walks a labeled directory tree of résumé documents, sends each
new document through a language model to obtain structured work, education and
certification records, and stores aggregated features plus embeddings in
PostgreSQL. Documents already processed (tracked by content hash) are skipped.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

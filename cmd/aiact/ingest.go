package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"aiact/internal/app"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest file.txt [file.txt ...]",
	Short: "Index regulation text into the reference store",
	Long: `Splits plain-text extractions of the regulation (pages separated by form
feeds) into chunks and replaces the contents of the configured store.
Only the sqlite store persists across runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Retrieval.Type == "memory" {
			logger.Warn("memory store selected; the index is discarded when the command exits")
		}
		store, err := app.NewTextStore(cfg.Retrieval)
		if err != nil {
			return err
		}
		if c, ok := store.(io.Closer); ok {
			defer c.Close()
		}
		report, err := app.NewIngestService(cfg, store, logger).IngestDocuments(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Indexed %d chunks from %d documents.\n\n", report.Chunks, report.Documents)
		fmt.Fprintln(out, report.Summary)
		return nil
	},
}

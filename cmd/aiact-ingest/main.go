// Command aiact-ingest indexes plain-text extractions of the AI Act into the
// configured reference store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"aiact/internal/app"
	"aiact/internal/config"
	"aiact/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: aiact-ingest [--config=config.yaml] act.txt [annexes.txt ...]")
		os.Exit(1)
	}
	if err := run(*cfgPath, *verbose, inputs); err != nil {
		log.Fatal(err)
	}
}

func run(cfgPath string, verbose bool, inputs []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	store, err := app.NewTextStore(cfg.Retrieval)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	report, err := app.NewIngestService(cfg, store, logger).IngestDocuments(context.Background(), inputs)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	fmt.Printf("Indexed %d chunks from %d documents into %s store.\n\n%s\n", report.Chunks, report.Documents, cfg.Retrieval.Type, report.Summary)
	return nil
}

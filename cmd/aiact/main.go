package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aiact/internal/app"
	"aiact/internal/config"
	"aiact/internal/logging"
)

var (
	cfgPath string
	verbose bool

	cfg    *config.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aiact",
	Short: "AI Act compliance assistant",
	Long: `aiact summarises an AI project description, classifies it into an
EU AI Act risk tier and, unless the project is prohibited, writes a
compliance guide grounded in the most relevant passages of the regulation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath == "" {
			var path string
			cfg, path, err = config.LoadDefault()
			if err == nil && verbose {
				fmt.Fprintf(os.Stderr, "using config %s\n", path)
			}
		} else {
			cfg, err = config.Load(cfgPath)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err = logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Verbose: verbose})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default ./config.yaml or ~/.config/aiact/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(serveCmd, analyzeCmd, tuiCmd, ingestCmd)
}

// buildApp assembles every component from the loaded config.
func buildApp(ctx context.Context, l *zap.Logger) (*app.App, error) {
	a, err := app.New(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("startup failed: %w", err)
	}
	return a, nil
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

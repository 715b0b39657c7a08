package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aiact/internal/logging"
	"aiact/internal/tui"
)

var tuiLogFile string

var tuiCmd = &cobra.Command{
	Use:   "tui [file.txt ...]",
	Short: "Interactive compliance dashboard",
	Long: `Opens the dashboard. Text files given as arguments are ingested into the
reference store first, in addition to retrieval.sources.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs here while the dashboard owns the terminal")
}

func runTUI(cmd *cobra.Command, args []string) error {
	// the dashboard owns stderr, so logs go to a file or nowhere
	l := zap.NewNop()
	if tuiLogFile != "" {
		var err error
		l, err = logging.New(logging.Config{Level: cfg.Log.Level, Format: "json", Verbose: verbose, OutputPaths: []string{tuiLogFile}})
		if err != nil {
			return err
		}
		defer l.Sync()
	}
	cfg.Retrieval.Sources = append(cfg.Retrieval.Sources, args...)

	a, err := buildApp(cmd.Context(), l)
	if err != nil {
		return err
	}
	defer a.Close()

	m := tui.New(a.Compliance, tui.Options{MaxLength: cfg.Server.MaxLength})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

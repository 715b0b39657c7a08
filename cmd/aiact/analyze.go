package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"aiact/internal/domain"
	"aiact/internal/pipeline"
	"aiact/internal/risk"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [description|-]",
	Short: "Run the compliance pipeline once",
	Long: `Runs the pipeline on a project description given as arguments, or read
from stdin when the only argument is "-" or none is given.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the result as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	desc, err := readDescription(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	a, err := buildApp(cmd.Context(), logger)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Compliance.Analyze(cmd.Context(), pipeline.Request{ProjectDescription: desc})
	if err != nil {
		return err
	}
	return printOutcome(cmd.OutOrStdout(), out, analyzeJSON)
}

func readDescription(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func printOutcome(w io.Writer, out pipeline.Outcome, asJSON bool) error {
	category := risk.Detect(out.Result.RiskLevel)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			domain.AiactResult
			RiskCategory risk.Category `json:"risk_category"`
			Outcome      string        `json:"outcome"`
		}{out.Result, category, out.Terminal.String()})
	}
	fmt.Fprintf(w, "Risk category: %s\n\n", category)
	fmt.Fprintf(w, "Key functionalities:\n%s\n\n", strings.TrimSpace(out.Result.KeyFunctionalities))
	fmt.Fprintf(w, "Risk level:\n%s\n", strings.TrimSpace(out.Result.RiskLevel))
	if out.Terminal == pipeline.ShortCircuited {
		fmt.Fprintln(w, "\nThe project falls under prohibited practices; no compliance guide applies.")
		return nil
	}
	fmt.Fprintf(w, "\nCompliance guide:\n%s\n", strings.TrimSpace(out.Result.ComplianceGuide))
	return nil
}

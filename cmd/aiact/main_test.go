package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiact/internal/domain"
	"aiact/internal/pipeline"
)

func TestReadDescription(t *testing.T) {
	got, err := readDescription(strings.NewReader("ignored"), []string{"a", "chatbot"})
	require.NoError(t, err)
	assert.Equal(t, "a chatbot", got)

	got, err = readDescription(strings.NewReader("from stdin"), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	got, err = readDescription(strings.NewReader("piped"), nil)
	require.NoError(t, err)
	assert.Equal(t, "piped", got)
}

func TestPrintOutcome(t *testing.T) {
	full := pipeline.Outcome{Terminal: pipeline.FullyProcessed, Result: domain.AiactResult{
		KeyFunctionalities: "- CV ranking\n",
		AiactExtract:       "Annex III",
		ComplianceGuide:    "1. Register.",
		RiskLevel:          "High risk",
	}}

	var buf bytes.Buffer
	require.NoError(t, printOutcome(&buf, full, false))
	assert.Contains(t, buf.String(), "Risk category: High Risk")
	assert.Contains(t, buf.String(), "Compliance guide:\n1. Register.")

	buf.Reset()
	require.NoError(t, printOutcome(&buf, full, true))
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "High Risk", decoded["risk_category"])
	assert.Equal(t, "fully_processed", decoded["outcome"])
	assert.Equal(t, "Annex III", decoded["aiact_extract"])

	buf.Reset()
	short := pipeline.Outcome{Terminal: pipeline.ShortCircuited, Result: domain.AiactResult{RiskLevel: "Prohibited"}}
	require.NoError(t, printOutcome(&buf, short, false))
	assert.Contains(t, buf.String(), "no compliance guide applies")
	assert.NotContains(t, buf.String(), "Compliance guide:")
}

func TestCommandTree(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "analyze", "tui", "ingest"})
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_KeepsFrequentSentencesInOrder(t *testing.T) {
	text := "High-risk AI systems require a risk management system. " +
		"The weather was pleasant. " +
		"Providers of high-risk AI systems keep logs. " +
		"Lunch is at noon."
	got, err := NewFrequencySummarizer().Summarize(text, 2)
	require.NoError(t, err)
	assert.Equal(t, "High-risk AI systems require a risk management system. Providers of high-risk AI systems keep logs.", got)
}

func TestSummarize_ShortTextUnchanged(t *testing.T) {
	got, err := NewFrequencySummarizer().Summarize("  One sentence\nonly ", 0)
	require.NoError(t, err)
	assert.Equal(t, "One sentence only", got)

	got, err = NewFrequencySummarizer().Summarize("", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

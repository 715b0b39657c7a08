package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"aiact/internal/embedding/tfidf"
)

var sentenceRe = regexp.MustCompile(`[^.!?]+(?:[.!?]+|$)`)

// FrequencySummarizer is an extractive summarizer: it keeps the sentences
// whose content words occur most often across the text, in original order.
type FrequencySummarizer struct {
	tokenizer *tfidf.Embedder
}

func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{tokenizer: tfidf.NewEmbedder()}
}

func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	var sentences []string
	for _, sent := range sentenceRe.FindAllString(text, -1) {
		if sent = strings.Join(strings.Fields(sent), " "); sent != "" {
			sentences = append(sentences, sent)
		}
	}
	if len(sentences) <= maxSentences {
		return strings.Join(sentences, " "), nil
	}

	tokens := make([][]string, len(sentences))
	freq := map[string]float64{}
	maxF := 0.0
	for i, sent := range sentences {
		tokens[i] = s.tokenizer.Tokenize(sent)
		for _, tok := range tokens[i] {
			freq[tok]++
			maxF = math.Max(maxF, freq[tok])
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i := range sentences {
		sum := 0.0
		for _, tok := range tokens[i] {
			sum += freq[tok] / maxF
		}
		// dampen long sentences
		if n := len(tokens[i]); n > 0 {
			sum /= math.Sqrt(float64(n))
		}
		scores[i] = scored{i, sum}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " "), nil
}

package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"aiact/internal/embedding/tfidf"
	"aiact/internal/risk"
)

var scaleTiers = []risk.Category{risk.Prohibited, risk.High, risk.Limited, risk.Minimal}

// renderScale draws the four tiers as coloured bands with a marker line
// beneath at the category's position.
func renderScale(c risk.Category, width int) string {
	width = max(len(scaleTiers)*4, width)
	band := width / len(scaleTiers)
	var bar strings.Builder
	for _, tier := range scaleTiers {
		label := tier.String()
		if len(label) > band {
			label = label[:band]
		}
		bar.WriteString(lipgloss.NewStyle().
			Background(lipgloss.Color(tier.Color())).
			Foreground(lipgloss.Color("0")).
			Width(band).
			Align(lipgloss.Center).
			Render(label))
	}
	total := band * len(scaleTiers)
	pos := int(c.Position() / 100 * float64(total))
	pos = min(max(pos, 1), total) - 1
	marker := strings.Repeat(" ", pos) + lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Color())).
		Bold(true).
		Render("▲ "+c.String())
	return bar.String() + "\n" + marker
}

var (
	tokenizer  = tfidf.NewEmbedder()
	sentenceRe = regexp.MustCompile(`[^.!?]+(?:[.!?]+|$)`)
)

// highlightBestSentence emphasises the sentence sharing most words with
// query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	paragraphs := strings.Split(text, "\n\n")
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return text
	}
	bestP, bestS, bestScore := -1, -1, 0
	split := make([][]string, len(paragraphs))
	for pi, p := range paragraphs {
		split[pi] = sentenceRe.FindAllString(p, -1)
		for si, s := range split[pi] {
			if score := tokenOverlapScore(qTokens, s); score > bestScore {
				bestP, bestS, bestScore = pi, si, score
			}
		}
	}
	if bestP < 0 {
		return text
	}
	sentences := split[bestP]
	sentences[bestS] = highlightStyle.Render(strings.TrimSpace(sentences[bestS]))
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}
	paragraphs[bestP] = strings.Join(sentences, " ")
	return strings.Join(paragraphs, "\n\n")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := tokenizer.Tokenize(s)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	for t := range toTokenSet(sentence) {
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}

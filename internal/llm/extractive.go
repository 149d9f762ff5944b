package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/csheth/docchat/internal/retrieval"
)

const (
	maxExtractiveSentences = 3
	// NoContextAnswer is returned when nothing in the context relates to the question.
	NoContextAnswer = "I don't have enough information from the documentation to answer that."
)

// Extractive answers without a model by quoting the sentences that share the most keywords
// with the question. The highlighted passage, when present, is searched first.
type Extractive struct{}

func (Extractive) Name() string {
	return "extractive"
}

func (Extractive) Answer(_ context.Context, req AnswerRequest) (string, error) {
	if strings.TrimSpace(req.Question) == "" {
		return "", fmt.Errorf("question cannot be empty")
	}
	keywords := retrieval.Keywords(req.Question)

	var texts []string
	if req.SelectedText != "" {
		texts = append(texts, req.SelectedText)
	}
	for _, p := range req.Passages {
		texts = append(texts, p.Text)
	}

	var picked []string
	for _, text := range texts {
		for _, sentence := range roughSentenceSplit(text) {
			if len(picked) == maxExtractiveSentences {
				break
			}
			lower := strings.ToLower(sentence)
			for keyword := range keywords {
				if strings.Contains(lower, keyword) {
					picked = append(picked, sentence)
					break
				}
			}
		}
	}
	if len(picked) == 0 {
		if sentences := roughSentenceSplit(req.SelectedText); len(sentences) > 0 {
			return sentences[0], nil
		}
		return NoContextAnswer, nil
	}
	return strings.Join(picked, " "), nil
}

package llm

import (
	"strings"
)

const systemPrompt = `You are a friendly and helpful teaching assistant for this documentation site.

RULES:
1. When the user greets you, respond warmly and introduce yourself. Do NOT refuse a greeting.
2. For content questions, answer based on the provided documentation context. Cite the Part and Section for key claims.
3. If the context does not contain enough information, say: "I don't have enough information from the documentation to answer that."
4. For questions clearly unrelated to the documentation, politely redirect the user to its topics.
5. Preserve all documentation-specific terminology exactly as it appears in the source.
6. Keep answers concise and technically precise.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func buildContext(passages []Passage) string {
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		if p.Label != "" {
			text = "[" + p.Label + "]\n" + text
		}
		parts = append(parts, text)
	}
	return clipText(strings.Join(parts, "\n\n---\n\n"), maxContextChars)
}

func buildUserContent(req AnswerRequest) string {
	builder := strings.Builder{}
	context := buildContext(req.Passages)
	if selected := clipText(req.SelectedText, maxSelectedChars); selected != "" {
		builder.WriteString("The learner highlighted this passage from the documentation:\n\n")
		builder.WriteString("\"" + selected + "\"\n\n")
		if context != "" {
			builder.WriteString("Supplementary context:\n\n")
			builder.WriteString(context)
			builder.WriteString("\n\n")
		}
	} else {
		builder.WriteString("Context from the documentation:\n\n")
		builder.WriteString(context)
		builder.WriteString("\n\n")
	}
	builder.WriteString("Question: " + strings.TrimSpace(req.Question))
	return builder.String()
}

func recentTurns(history []Turn) []Turn {
	if len(history) > historyTurns {
		return history[len(history)-historyTurns:]
	}
	return history
}

// buildMessages renders the chat-completions form: system rules, recent turns, then the grounded question.
func buildMessages(req AnswerRequest) []chatMessage {
	messages := []chatMessage{{Role: "system", Content: systemPrompt}}
	for _, turn := range recentTurns(req.History) {
		messages = append(messages,
			chatMessage{Role: "user", Content: turn.Question},
			chatMessage{Role: "assistant", Content: turn.Answer},
		)
	}
	return append(messages, chatMessage{Role: "user", Content: buildUserContent(req)})
}

// buildAnswerPrompt flattens the same conversation into a single completion prompt.
func buildAnswerPrompt(req AnswerRequest) string {
	builder := strings.Builder{}
	builder.WriteString(systemPrompt)
	builder.WriteString("\n\n")
	if turns := recentTurns(req.History); len(turns) > 0 {
		builder.WriteString("Conversation so far:\n")
		for _, turn := range turns {
			builder.WriteString("User: " + turn.Question + "\n")
			builder.WriteString("Assistant: " + turn.Answer + "\n")
		}
		builder.WriteString("\n")
	}
	builder.WriteString(buildUserContent(req))
	builder.WriteString("\nAnswer:")
	return builder.String()
}

func roughSentenceSplit(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentence := strings.TrimSpace(current.String())
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			current.Reset()
		}
	}
	if tail := strings.TrimSpace(current.String()); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/docchat/internal/conversation"
	"github.com/csheth/docchat/internal/selection"
	"github.com/csheth/docchat/internal/widget"
)

func (m *model) chatView() string {
	parts := []string{titleStyle.Render(widget.Title)}
	if pending, ok := m.widget.Pending(); ok {
		preview := selection.Preview(strings.Join(strings.Fields(pending.Text), " "))
		banner := wordwrap.String(fmt.Sprintf("Selected: \"%s\"", preview), m.layout.chatInnerWidth-2)
		parts = append(parts, bannerStyle.Render(banner), helperStyle.Render("ctrl+x clears the selection"))
	}
	parts = append(parts, m.transcript.View(), m.composer.View())
	return chatBoxStyle.Width(m.layout.chatWidth - 2).Render(strings.Join(parts, "\n"))
}

func (m *model) refreshTranscript() {
	m.transcript.SetContent(m.transcriptContent())
	m.transcript.GotoBottom()
}

func (m *model) transcriptContent() string {
	cb := &contentBuilder{}
	wrap := m.layout.chatInnerWidth - 2
	if wrap < 20 {
		wrap = 20
	}
	messages := m.widget.Messages()
	if len(messages) == 0 {
		cb.WriteString(helperStyle.Render(wordwrap.String(m.widget.EmptyHint(), wrap)))
		cb.WriteRune('\n')
	}
	lastAnswer := lastAssistantIndex(messages)
	for idx, msg := range messages {
		if idx > 0 {
			cb.WriteRune('\n')
		}
		if msg.Role == conversation.RoleUser {
			cb.WriteString(userLabelStyle.Render("You"))
		} else {
			cb.WriteString(botLabelStyle.Render("Assistant"))
		}
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(wordwrap.String(msg.Text, wrap), "  "))
		cb.WriteRune('\n')
		active := -1
		if idx == lastAnswer {
			active = m.citationIdx
		}
		m.writeCitations(cb, msg.Sources, active, wrap)
		if footer := messageFooter(msg); footer != "" {
			cb.WriteString(helperStyle.Render("  " + footer))
			cb.WriteRune('\n')
		}
	}
	if m.widget.Loading() {
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), thinkingLabel)))
		cb.WriteRune('\n')
	}
	return cb.String()
}

// writeCitations lists sources; active is the index among linked citations that ctrl+g last opened.
func (m *model) writeCitations(cb *contentBuilder, sources []conversation.Citation, active, wrap int) {
	if len(sources) == 0 {
		return
	}
	cb.WriteString(helperStyle.Render("  Sources:"))
	cb.WriteRune('\n')
	linked := 0
	for _, src := range sources {
		line := "  • "
		if src.IsPrimary {
			line += primaryBadgeStyle.Render("PRIMARY") + " "
		}
		label := wordwrap.String(src.Label(), wrap-6)
		if src.Linked() {
			style := linkStyle
			if linked == active {
				style = activeLinkStyle
			}
			line += style.Render(label) + helperStyle.Render(" → "+src.Link)
			linked++
		} else {
			line += label
		}
		cb.WriteString(line)
		cb.WriteRune('\n')
	}
}

func messageFooter(msg conversation.Message) string {
	var bits []string
	if msg.Latency > 0 {
		bits = append(bits, fmt.Sprintf("answered in %s", msg.Latency.Round(10*time.Millisecond)))
	}
	if msg.RetrievalMode != "" {
		bits = append(bits, strings.ReplaceAll(msg.RetrievalMode, "_", " "))
	}
	return strings.Join(bits, " · ")
}

func lastAssistantIndex(messages []conversation.Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == conversation.RoleAssistant {
			return i
		}
	}
	return -1
}

func linkedCitations(sources []conversation.Citation) []conversation.Citation {
	var out []conversation.Citation
	for _, src := range sources {
		if src.Linked() {
			out = append(out, src)
		}
	}
	return out
}

// followNextCitation opens the page behind the next linked source of the latest answer.
func (m *model) followNextCitation() {
	answer, ok := m.widget.LastAnswer()
	if !ok {
		return
	}
	links := linkedCitations(answer.Sources)
	if len(links) == 0 {
		m.infoMessage = "The latest answer has no linked sources."
		return
	}
	m.citationIdx = (m.citationIdx + 1) % len(links)
	target := links[m.citationIdx]
	idx, found := m.config.Library.IndexOf(target.Link)
	if !found {
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("%s is not part of the local docs.", target.Link)
		m.refreshTranscript()
		return
	}
	m.openPage(idx)
	m.infoMessage = fmt.Sprintf("Opened %s (%d/%d).", target.Link, m.citationIdx+1, len(links))
	m.refreshTranscript()
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// pageLayout splits the window between the reader and, when open, the chat panel.
type pageLayout struct {
	windowWidth      int
	windowHeight     int
	readerWidth      int
	bodyHeight       int
	chatWidth        int
	chatInnerWidth   int
	transcriptHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		readerWidth:      80,
		bodyHeight:       20,
		chatInnerWidth:   minChatWidth,
		transcriptHeight: 10,
	}
}

func (l *pageLayout) Update(width, height int, chatOpen bool) {
	l.windowWidth = width
	l.windowHeight = height
	// header + info line + key legend
	const chrome = 3
	l.bodyHeight = height - chrome
	if l.bodyHeight < 6 {
		l.bodyHeight = 6
	}

	l.chatWidth = 0
	readerWidth := width - viewportHorizontalPadding
	if chatOpen {
		l.chatWidth = width * 2 / 5
		if l.chatWidth < minChatWidth {
			l.chatWidth = minChatWidth
		}
		readerWidth = width - l.chatWidth - 1
	}
	if readerWidth < minReaderWidth {
		readerWidth = minReaderWidth
	}
	l.readerWidth = readerWidth

	// border + horizontal padding
	l.chatInnerWidth = l.chatWidth - 4
	if l.chatInnerWidth < minChatWidth-4 {
		l.chatInnerWidth = minChatWidth - 4
	}
	// border, title, banner + hint, composer
	l.transcriptHeight = l.bodyHeight - 6
	if l.transcriptHeight < 3 {
		l.transcriptHeight = 3
	}
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func joinColumns(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

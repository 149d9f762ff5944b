package tui

import (
	"regexp"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

func (m *model) openPage(idx int) {
	page, ok := m.config.Library.At(idx)
	if !ok {
		return
	}
	m.page = page
	m.pageIndex = idx
	m.hasPage = true
	m.cursorLine = 0
	m.setHighlight(false)
	m.readerDirty = true
	m.refreshReaderIfDirty()
	m.reader.SetYOffset(0)
}

func (m *model) refreshReaderIfDirty() {
	if m.readerDirty {
		m.refreshReader()
	}
}

func (m *model) refreshReader() {
	m.readerDirty = false
	if !m.hasPage {
		m.readerLines = []string{""}
		m.bodyStart = 0
		m.reader.SetContent(helperStyle.Render("No documentation pages loaded."))
		return
	}
	cb := &contentBuilder{}
	cb.WriteString(m.page.Title)
	cb.WriteRune('\n')
	if m.page.Part != "" {
		cb.WriteString(m.page.Part)
		cb.WriteRune('\n')
	}
	cb.WriteString(m.page.Route)
	cb.WriteRune('\n')
	cb.WriteRune('\n')
	m.bodyStart = cb.Line()
	cb.WriteString(wordwrap.String(strings.TrimSpace(m.page.Body), m.wrapWidth(2)))

	m.readerLines = splitLinesPreserve(cb.String())
	if m.cursorLine >= len(m.readerLines) {
		m.cursorLine = len(m.readerLines) - 1
	}
	if m.cursorLine < 0 {
		m.cursorLine = 0
	}

	styled := make([]string, len(m.readerLines))
	copy(styled, m.readerLines)
	styled[0] = sectionHeaderStyle.Render(styled[0])
	if m.page.Part != "" && len(styled) > 1 {
		styled[1] = partStyle.Render(styled[1])
	}
	start, end, hasSelection := m.selectionRange()
	content := applyLineHighlights(strings.Join(styled, "\n"), m.cursorLine, start, end, hasSelection)
	offset := m.reader.YOffset
	m.reader.SetContent(content)
	m.reader.SetYOffset(m.clampYOffset(offset))
}

func (m *model) moveCursor(delta int) {
	m.setCursorLine(m.cursorLine + delta)
}

func (m *model) setCursorLine(line int) {
	if len(m.readerLines) == 0 {
		return
	}
	if line < 0 {
		line = 0
	}
	if line >= len(m.readerLines) {
		line = len(m.readerLines) - 1
	}
	if line == m.cursorLine {
		return
	}
	m.cursorLine = line
	m.readerDirty = true
	m.refreshReaderIfDirty()
	m.ensureCursorVisible()
}

func (m *model) ensureCursorVisible() {
	if m.cursorLine < m.reader.YOffset {
		m.reader.SetYOffset(m.cursorLine)
		return
	}
	lowerBound := m.reader.YOffset + m.reader.Height - 1
	if m.cursorLine > lowerBound {
		target := m.cursorLine - m.reader.Height + 1
		if target < 0 {
			target = 0
		}
		m.reader.SetYOffset(target)
	}
}

func (m *model) toggleHighlightMode() {
	if m.mode == modeHighlight {
		m.setHighlight(false)
		m.infoMessage = "Highlight mode disabled."
		return
	}
	if !m.hasPage {
		return
	}
	m.setHighlight(true)
	m.infoMessage = "Highlight mode enabled. Move to expand the selection, ctrl+o to ask about it."
}

func (m *model) setHighlight(on bool) {
	if on {
		m.mode = modeHighlight
		m.selectionAnchor = m.cursorLine
		m.selectionActive = true
	} else {
		m.mode = modeNormal
		m.selectionActive = false
	}
	m.readerDirty = true
}

func (m *model) selectionRange() (int, int, bool) {
	if !m.selectionActive || m.mode != modeHighlight || len(m.readerLines) == 0 {
		return 0, 0, false
	}
	start, end := m.selectionAnchor, m.cursorLine
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end >= len(m.readerLines) {
		end = len(m.readerLines) - 1
	}
	return start, end, true
}

// selectedText is the highlighted part of the page body; header lines are never included.
func (m *model) selectedText() string {
	start, end, ok := m.selectionRange()
	if !ok {
		return ""
	}
	if start < m.bodyStart {
		start = m.bodyStart
	}
	if start > end {
		return ""
	}
	lines := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		lines = append(lines, m.readerLines[i])
	}
	return strings.TrimSpace(stripANSI(strings.Join(lines, "\n")))
}

func (m *model) wrapWidth(padding int) int {
	width := m.reader.Width
	if width <= 0 {
		width = 80
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func (m *model) clampYOffset(offset int) int {
	maxOffset := len(m.readerLines) - m.reader.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

var ansiEscapeCodes = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func stripANSI(text string) string {
	return ansiEscapeCodes.ReplaceAllString(text, "")
}

func splitLinesPreserve(content string) []string {
	if content == "" {
		return []string{""}
	}
	return strings.Split(content, "\n")
}

func applyLineHighlights(content string, cursor int, selectionStart, selectionEnd int, hasSelection bool) string {
	if content == "" {
		return content
	}
	lines := strings.Split(content, "\n")
	for idx, line := range lines {
		inSelection := hasSelection && idx >= selectionStart && idx <= selectionEnd
		switch {
		case idx == cursor:
			lines[idx] = currentLineStyle.Render(stripANSI(line))
		case inSelection:
			lines[idx] = selectionLineStyle.Render(stripANSI(line))
		}
	}
	return strings.Join(lines, "\n")
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/docchat/internal/dispatch"
	"github.com/csheth/docchat/internal/docs"
	"github.com/csheth/docchat/internal/selection"
	"github.com/csheth/docchat/internal/widget"
)

// Config wires runtime collaborators into the TUI program.
type Config struct {
	Library    *docs.Library
	Dispatcher *dispatch.Dispatcher
	Health     HealthChecker
	Logger     *zap.Logger
	// StartRoute opens a specific page first; empty opens the first page.
	StartRoute string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config)
}

func newModel(config Config) *model {
	if config.Library == nil {
		config.Library = docs.NewLibrary(nil)
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	composer := textinput.New()
	composer.CharLimit = composerCharLimit
	composer.Width = minChatWidth
	composer.Prompt = "> "

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	reader := viewport.New(80, 20)
	reader.MouseWheelEnabled = true
	transcript := viewport.New(minChatWidth, 10)

	m := &model{
		config:        config,
		layout:        newPageLayout(),
		reader:        reader,
		transcript:    transcript,
		composer:      composer,
		spinner:       spin,
		jobs:          newJobBus(config.Logger),
		logger:        config.Logger,
		backendStatus: backendChecking,
		citationIdx:   -1,
		readerDirty:   true,
	}
	m.widget = widget.New(widget.Config{
		Selection:  selection.SourceFunc(m.selectedText),
		Dispatcher: config.Dispatcher,
	})
	m.composer.Placeholder = m.widget.Placeholder()

	start := 0
	if config.StartRoute != "" {
		if idx, ok := config.Library.IndexOf(config.StartRoute); ok {
			start = idx
		}
	}
	m.openPage(start)
	if config.Library.Len() == 0 {
		m.infoMessage = "No documentation pages found."
	} else {
		m.infoMessage = "Press ctrl+o to ask the docs. v highlights lines to ask about them."
	}
	return m
}

type model struct {
	config Config
	widget *widget.Controller
	jobs   *jobBus
	logger *zap.Logger
	layout pageLayout

	reader     viewport.Model
	transcript viewport.Model
	composer   textinput.Model
	spinner    spinner.Model

	focus           focusArea
	mode            interactionMode
	pageIndex       int
	page            docs.Page
	hasPage         bool
	readerLines     []string
	bodyStart       int
	readerDirty     bool
	cursorLine      int
	selectionAnchor int
	selectionActive bool

	citationIdx   int
	backendStatus string
	infoMessage   string
	errorMessage  string
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.config.Health != nil {
		cmds = append(cmds, m.jobs.Start(jobKindHealth, healthJob(m.config.Health)))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.widget.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refreshTranscript()
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.reader, cmd = m.reader.Update(msg)
		return m, cmd
	case answerMsg:
		reply := m.widget.Complete(msg.outcome)
		m.citationIdx = -1
		if msg.outcome.Err != nil {
			m.errorMessage = reply.Text
		} else {
			m.errorMessage = ""
			m.infoMessage = "Answer received."
			if len(linkedCitations(reply.Sources)) > 0 {
				m.infoMessage = "Answer received. ctrl+g cycles through cited pages."
			}
		}
		m.syncComposer()
		m.refreshTranscript()
		return m, nil
	case healthMsg:
		m.backendStatus = msg.status
		if msg.err != nil {
			m.logger.Warn("backend health probe failed", zap.Error(msg.err))
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+o":
		return m, m.toggleChat()
	case "ctrl+x":
		if _, ok := m.widget.Pending(); ok {
			m.widget.ClearSelection()
			m.infoMessage = "Selection cleared. Questions now cover the whole docs."
			m.syncComposer()
			m.refreshTranscript()
		}
		return m, nil
	case "ctrl+g":
		m.followNextCitation()
		return m, nil
	case "tab":
		if m.widget.IsOpen() {
			m.switchFocus()
			return m, nil
		}
	}
	if m.focus == focusComposer && m.widget.IsOpen() {
		return m.handleComposerKey(key)
	}
	return m.handleReaderKey(key)
}

func (m *model) handleComposerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.closeChat()
		return m, nil
	case tea.KeyEnter:
		return m, m.submit()
	}
	if m.widget.Loading() {
		return m, nil
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(key)
	return m, cmd
}

func (m *model) handleReaderKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		switch {
		case m.mode == modeHighlight:
			m.setHighlight(false)
			m.infoMessage = "Highlight mode disabled."
		case m.widget.IsOpen():
			m.closeChat()
		default:
			return m, tea.Quit
		}
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "v":
		m.toggleHighlightMode()
	case "n":
		m.openPage(m.pageIndex + 1)
	case "p":
		m.openPage(m.pageIndex - 1)
	case "g":
		m.setCursorLine(0)
	case "G":
		m.setCursorLine(len(m.readerLines) - 1)
	case "q":
		if !m.widget.IsOpen() {
			return m, tea.Quit
		}
	default:
		var cmd tea.Cmd
		m.reader, cmd = m.reader.Update(key)
		return m, cmd
	}
	return m, nil
}

func (m *model) toggleChat() tea.Cmd {
	if m.widget.IsOpen() {
		m.closeChat()
		return nil
	}
	captured := m.widget.Open()
	if captured {
		m.setHighlight(false)
		m.infoMessage = "Selection captured. Your next question is about it."
	} else {
		m.infoMessage = "Chat open. Enter sends, esc closes, tab switches focus."
	}
	m.focus = focusComposer
	m.composer.Focus()
	m.syncComposer()
	m.resize(m.layout.windowWidth, m.layout.windowHeight)
	m.refreshTranscript()
	return textinput.Blink
}

func (m *model) closeChat() {
	m.widget.Close()
	m.focus = focusReader
	m.composer.Blur()
	m.infoMessage = "Chat closed. ctrl+o reopens it."
	m.resize(m.layout.windowWidth, m.layout.windowHeight)
}

func (m *model) switchFocus() {
	if m.focus == focusComposer {
		m.focus = focusReader
		m.composer.Blur()
		return
	}
	m.focus = focusComposer
	m.composer.Focus()
}

func (m *model) submit() tea.Cmd {
	if m.widget.Loading() {
		return nil
	}
	ex, ok := m.widget.Submit(m.composer.Value())
	if !ok {
		return nil
	}
	m.composer.SetValue("")
	m.errorMessage = ""
	m.infoMessage = ""
	m.syncComposer()
	m.refreshTranscript()
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindQuery, queryJob(ex)))
}

// syncComposer mirrors the widget's scope and loading state onto the input.
func (m *model) syncComposer() {
	m.composer.Placeholder = m.widget.Placeholder()
	if m.widget.Loading() {
		m.composer.Placeholder = thinkingLabel
	}
}

func (m *model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.layout.Update(width, height, m.widget.IsOpen())
	m.reader.Width = m.layout.readerWidth
	m.reader.Height = m.layout.bodyHeight
	m.transcript.Width = m.layout.chatInnerWidth
	m.transcript.Height = m.layout.transcriptHeight
	m.composer.Width = m.layout.chatInnerWidth - len(m.composer.Prompt) - 1
	m.readerDirty = true
	m.refreshReaderIfDirty()
	m.refreshTranscript()
}

func (m *model) View() string {
	m.refreshReaderIfDirty()
	body := m.reader.View()
	if m.widget.IsOpen() {
		body = joinColumns(body, m.chatView())
	}
	parts := []string{m.headerView(), body, m.footerView()}
	return strings.Join(parts, "\n")
}

func (m *model) headerView() string {
	title := "docchat"
	if m.hasPage {
		title = fmt.Sprintf("docchat  •  %s  (%d/%d)", m.page.Title, m.pageIndex+1, m.config.Library.Len())
	}
	stats := []string{title, "Mode " + m.modeLabel(), "Backend " + m.backendStatus}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) footerView() string {
	lines := []string{}
	if m.errorMessage != "" {
		lines = append(lines, errorStyle.Render(m.errorMessage))
	} else if m.infoMessage != "" {
		lines = append(lines, helperStyle.Render(m.infoMessage))
	}
	lines = append(lines, m.keyLegendView())
	return strings.Join(lines, "\n")
}

func (m *model) modeLabel() string {
	if m.mode == modeHighlight {
		return "HIGHLIGHT"
	}
	return "NORMAL"
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"ctrl+o", "chat"},
		{"v", "highlight"},
		{"j/k", "move"},
		{"n/p", "page"},
	}
	if m.widget.IsOpen() {
		hints = []keyHint{
			{"enter", "send"},
			{"tab", "focus"},
			{"ctrl+x", "clear selection"},
			{"ctrl+g", "open source"},
			{"esc", "close"},
		}
	}
	cells := make([]string, 0, len(hints))
	for _, hint := range hints {
		cells = append(cells, keyStyle.Render(hint.Key)+keyDescStyle.Render(" "+hint.Description))
	}
	return strings.Join(cells, " ")
}

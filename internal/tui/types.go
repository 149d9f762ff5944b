package tui

import (
	"github.com/csheth/docchat/internal/dispatch"
)

type focusArea int

const (
	focusReader focusArea = iota
	focusComposer
)

type interactionMode int

const (
	modeNormal interactionMode = iota
	modeHighlight
)

const (
	minReaderWidth            = 40
	minChatWidth              = 36
	viewportHorizontalPadding = 4
	composerCharLimit         = 2000
)

const (
	backendChecking    = "checking…"
	backendUnreachable = "unreachable"
	thinkingLabel      = "Thinking..."
)

type answerMsg struct {
	outcome dispatch.Outcome
}

type healthMsg struct {
	status string
	err    error
}

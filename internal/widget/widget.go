package widget

import (
	"time"

	"github.com/csheth/docchat/internal/conversation"
	"github.com/csheth/docchat/internal/dispatch"
	"github.com/csheth/docchat/internal/selection"
)

const (
	Title             = "Ask the Docs"
	placeholderScoped = "Ask about the selected text..."
	placeholderPlain  = "Ask about the docs..."
	emptyHint         = "Ask a question about the documentation."
	emptyHintNoScope  = " Highlight text on the page before opening chat to ask about a specific passage."
)

// Config wires the controller.
type Config struct {
	Selection  selection.Source
	Dispatcher *dispatch.Dispatcher
	Now        func() time.Time
}

// Controller composes selection capture and dispatch into the widget's open/loading states.
type Controller struct {
	selection  selection.Source
	dispatcher *dispatch.Dispatcher
	now        func() time.Time
	open       bool
}

// New returns a closed controller.
func New(cfg Config) *Controller {
	c := &Controller{
		selection:  cfg.Selection,
		dispatcher: cfg.Dispatcher,
		now:        cfg.Now,
	}
	if c.dispatcher == nil {
		c.dispatcher = dispatch.New(dispatch.Config{})
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// IsOpen reports whether the panel is visible.
func (c *Controller) IsOpen() bool {
	return c.open
}

// Loading reports whether a request is outstanding; the input is disabled meanwhile.
func (c *Controller) Loading() bool {
	return c.dispatcher.Awaiting()
}

// Open shows the panel. The reader's selection is captured only on a closed→open transition.
// It reports whether a new selection was captured.
func (c *Controller) Open() bool {
	if c.open {
		return false
	}
	captured := false
	if ctx, ok := selection.Capture(c.selection, c.now()); ok {
		c.dispatcher.Pending().Set(ctx)
		captured = true
	}
	c.open = true
	return captured
}

// Close hides the panel, keeping the conversation and any pending selection.
func (c *Controller) Close() {
	c.open = false
}

// Toggle flips the panel.
func (c *Controller) Toggle() bool {
	if c.open {
		c.Close()
		return false
	}
	return c.Open()
}

// Pending returns the selection that will scope the next question.
func (c *Controller) Pending() (selection.Context, bool) {
	return c.dispatcher.Pending().Peek()
}

// ClearSelection drops the pending selection so the next question is unscoped.
func (c *Controller) ClearSelection() {
	c.dispatcher.Pending().Clear()
}

// Submit starts a request for question.
func (c *Controller) Submit(question string) (*dispatch.Exchange, bool) {
	return c.dispatcher.Begin(question)
}

// Complete applies a finished request.
func (c *Controller) Complete(out dispatch.Outcome) conversation.Message {
	return c.dispatcher.Complete(out)
}

// Messages returns the conversation so far.
func (c *Controller) Messages() []conversation.Message {
	return c.dispatcher.Log().All()
}

// LastAnswer returns the most recent assistant message.
func (c *Controller) LastAnswer() (conversation.Message, bool) {
	return c.dispatcher.Log().LastAssistant()
}

// Placeholder is the composer prompt for the current scope.
func (c *Controller) Placeholder() string {
	if _, ok := c.Pending(); ok {
		return placeholderScoped
	}
	return placeholderPlain
}

// EmptyHint is shown before the first message.
func (c *Controller) EmptyHint() string {
	if _, ok := c.Pending(); ok {
		return emptyHint
	}
	return emptyHint + emptyHintNoScope
}

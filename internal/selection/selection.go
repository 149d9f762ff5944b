package selection

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinChars is the shortest trimmed selection accepted as question context.
	MinChars = 20
	// MaxChars is the longest trimmed selection accepted as question context.
	MaxChars = 5000

	previewChars = 80
)

// Source exposes the host's active text selection at the moment it is read.
type Source interface {
	SelectedText() string
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() string

// SelectedText implements Source.
func (f SourceFunc) SelectedText() string { return f() }

// Context is a reader-highlighted passage waiting to scope the next question.
type Context struct {
	Text       string
	CapturedAt time.Time
}

// Validate trims raw and reports whether it is usable as context.
func Validate(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(text)
	if n == 0 || n < MinChars || n > MaxChars {
		return "", false
	}
	return text, true
}

// Capture reads src once and returns the validated selection.
func Capture(src Source, now time.Time) (Context, bool) {
	if src == nil {
		return Context{}, false
	}
	text, ok := Validate(src.SelectedText())
	if !ok {
		return Context{}, false
	}
	return Context{Text: text, CapturedAt: now}, true
}

// Preview shortens text for the selection banner.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewChars {
		return text
	}
	return string(runes[:previewChars]) + "..."
}

// Slot holds at most one pending Context.
type Slot struct {
	ctx *Context
}

// Set replaces the pending context.
func (s *Slot) Set(ctx Context) {
	s.ctx = &ctx
}

// Clear drops the pending context, if any.
func (s *Slot) Clear() {
	s.ctx = nil
}

// Peek returns the pending context without consuming it.
func (s *Slot) Peek() (Context, bool) {
	if s.ctx == nil {
		return Context{}, false
	}
	return *s.ctx, true
}

// Take returns the pending context and clears the slot.
func (s *Slot) Take() (Context, bool) {
	ctx, ok := s.Peek()
	s.ctx = nil
	return ctx, ok
}

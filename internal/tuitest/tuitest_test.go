package tuitest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	t.Parallel()

	raw := []byte("\x1b[2J\x1b[Hfirst  \r\n\x1b[1mbold\x1b[0m\n\n\x1b[2J\x1b[Hsecond")
	frames := parseFrames(raw)
	require.Len(t, frames, 2)
	assert.Equal(t, "first\nbold", frames[0].Plain)
	last, ok := (&Recording{Raw: raw, Frames: frames}).FinalFrame()
	require.True(t, ok)
	assert.Equal(t, "second", last.Plain)
	assert.Equal(t, 1, last.Index)
}

func TestRecordingContainsSpansRepaints(t *testing.T) {
	t.Parallel()

	rec := &Recording{Raw: []byte("\x1b[2JAsk the \x1b[32mDocs\x1b[0m\r\n")}
	assert.True(t, rec.Contains("Ask the Docs"))
	assert.False(t, rec.Contains("Thinking"))
	var missing *Recording
	assert.False(t, missing.Contains("anything"))
	_, ok := missing.FinalFrame()
	assert.False(t, ok)
}

func TestResponderAnswersInOrder(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("noise\x1b]11;?\x07more\x1b[6"))
	tr.Process([]byte("n"))
	assert.Equal(t, "\x1b]11;rgb:0000/0000/0000\x07\x1b[1;1R", out.String())
}

func TestSyncBufferContainsPlain(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}
	_, _ = buf.Write([]byte("\x1b[1mAnswer\x1b[0m received"))
	assert.True(t, buf.containsPlain("Answer received"))
}

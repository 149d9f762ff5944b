package conversation

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Citation points at the document content backing an answer.
type Citation struct {
	ContentID string
	Part      string
	Section   string
	IsPrimary bool
	// Link is the in-site route for ContentID; empty when the citation is not navigable.
	Link string
}

// Linked reports whether the citation resolves to a page.
func (c Citation) Linked() bool {
	return c.Link != ""
}

// Label renders the "Part › Section" caption shown next to a citation.
func (c Citation) Label() string {
	switch {
	case c.Part == "":
		return c.Section
	case c.Section == "":
		return c.Part
	default:
		return c.Part + " › " + c.Section
	}
}

// Message is one entry in the conversation.
type Message struct {
	Role          Role
	Text          string
	Sources       []Citation
	RetrievalMode string
	Latency       time.Duration
	At            time.Time
}

// Log is the append-only, insertion-ordered conversation history.
type Log struct {
	messages []Message
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds msg to the end of the log.
func (l *Log) Append(msg Message) {
	msg.Sources = append([]Citation(nil), msg.Sources...)
	l.messages = append(l.messages, msg)
}

// All returns a snapshot of every message in insertion order.
func (l *Log) All() []Message {
	out := make([]Message, len(l.messages))
	for i, msg := range l.messages {
		msg.Sources = append([]Citation(nil), msg.Sources...)
		out[i] = msg
	}
	return out
}

// Len reports how many messages have been appended.
func (l *Log) Len() int {
	return len(l.messages)
}

// Last returns the most recent message.
func (l *Log) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}

// LastAssistant returns the most recent assistant message.
func (l *Log) LastAssistant() (Message, bool) {
	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].Role == RoleAssistant {
			return l.messages[i], true
		}
	}
	return Message{}, false
}

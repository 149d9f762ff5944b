package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/docchat/internal/backend"
	"github.com/csheth/docchat/internal/conversation"
	"github.com/csheth/docchat/internal/selection"
	"github.com/csheth/docchat/internal/session"
	"github.com/csheth/docchat/internal/sources"
)

// User-visible fallbacks.
const (
	ScopedPrefix       = "[About selected text] "
	ConnectivityFailed = "Could not connect to the chatbot server. Make sure the backend is running."
	GenericFailure     = "Something went wrong. Please try again."
	UnreadableFailure  = "Server error"
)

// State is the dispatcher's position in the request cycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting-response"
	default:
		return "unknown"
	}
}

// Config wires a Dispatcher to its collaborators.
type Config struct {
	Identity *session.Identity
	Pending  *selection.Slot
	Log      *conversation.Log
	Backend  backend.Querier
	Logger   *zap.Logger
	Now      func() time.Time
}

// Dispatcher runs one question/answer cycle at a time against the backend.
type Dispatcher struct {
	identity *session.Identity
	pending  *selection.Slot
	log      *conversation.Log
	backend  backend.Querier
	logger   *zap.Logger
	now      func() time.Time
	state    State
}

// Exchange is an in-flight request produced by Begin.
type Exchange struct {
	Request backend.QueryRequest
	Scoped  bool
	backend backend.Querier
	started time.Time
}

// Outcome is what Run hands back to Complete.
type Outcome struct {
	Response backend.QueryResponse
	Err      error
	Elapsed  time.Duration
}

// New returns an idle dispatcher.
func New(cfg Config) *Dispatcher {
	d := &Dispatcher{
		identity: cfg.Identity,
		pending:  cfg.Pending,
		log:      cfg.Log,
		backend:  cfg.Backend,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	if d.identity == nil {
		d.identity = session.NewIdentity(nil)
	}
	if d.pending == nil {
		d.pending = &selection.Slot{}
	}
	if d.log == nil {
		d.log = conversation.NewLog()
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	d.logger = d.logger.Named("dispatch")
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// State reports the current state.
func (d *Dispatcher) State() State {
	return d.state
}

// Awaiting reports whether a request is outstanding.
func (d *Dispatcher) Awaiting() bool {
	return d.state == StateAwaitingResponse
}

// Log exposes the conversation the dispatcher appends to.
func (d *Dispatcher) Log() *conversation.Log {
	return d.log
}

// Pending exposes the selection slot the dispatcher consumes from.
func (d *Dispatcher) Pending() *selection.Slot {
	return d.pending
}

// Begin starts a cycle for question. It is a no-op returning false when the trimmed question
// is empty or a request is already outstanding.
func (d *Dispatcher) Begin(question string) (*Exchange, bool) {
	question = strings.TrimSpace(question)
	if question == "" || d.state != StateIdle {
		return nil, false
	}

	scope, scoped := d.pending.Take()
	display := question
	if scoped {
		display = ScopedPrefix + question
	}
	now := d.now()
	d.log.Append(conversation.Message{Role: conversation.RoleUser, Text: display, At: now})
	d.state = StateAwaitingResponse

	req := backend.QueryRequest{Question: question, SessionID: d.identity.Get()}
	if scoped {
		req.SelectedText = scope.Text
	}
	d.logger.Info("query started",
		zap.Int("question_chars", len(question)),
		zap.Bool("scoped", scoped),
		zap.String("session_id", req.SessionID),
	)
	return &Exchange{Request: req, Scoped: scoped, backend: d.backend, started: now}, true
}

// Run sends the request. It does not touch dispatcher state and may run on any goroutine.
func (e *Exchange) Run(ctx context.Context) Outcome {
	if e.backend == nil {
		return Outcome{Err: backend.ErrTransport}
	}
	started := time.Now()
	resp, err := e.backend.Query(ctx, e.Request)
	return Outcome{Response: resp, Err: err, Elapsed: time.Since(started)}
}

// Complete applies the outcome of the outstanding request, appends the assistant message and
// returns to Idle. Calling it while Idle is ignored.
func (d *Dispatcher) Complete(out Outcome) conversation.Message {
	if d.state != StateAwaitingResponse {
		d.logger.Warn("completion without outstanding request")
		return conversation.Message{}
	}
	defer func() { d.state = StateIdle }()

	msg := d.interpret(out)
	msg.At = d.now()
	d.log.Append(msg)
	return msg
}

// Send runs a complete cycle synchronously.
func (d *Dispatcher) Send(ctx context.Context, question string) (conversation.Message, bool) {
	exchange, ok := d.Begin(question)
	if !ok {
		return conversation.Message{}, false
	}
	return d.Complete(exchange.Run(ctx)), true
}

func (d *Dispatcher) interpret(out Outcome) conversation.Message {
	if out.Err != nil {
		var statusErr *backend.StatusError
		if errors.As(out.Err, &statusErr) {
			text := GenericFailure
			detail, parsed := statusErr.Detail()
			switch {
			case detail != "":
				text = detail
			case !parsed:
				text = UnreadableFailure
			}
			d.logger.Warn("query rejected", zap.Int("status", statusErr.Code), zap.String("detail", detail))
			return conversation.Message{Role: conversation.RoleAssistant, Text: text, Sources: []conversation.Citation{}}
		}
		if errors.Is(out.Err, backend.ErrMalformedResponse) {
			d.logger.Warn("query response malformed", zap.Error(out.Err))
		} else {
			d.logger.Warn("query transport failure", zap.Error(out.Err))
		}
		return conversation.Message{Role: conversation.RoleAssistant, Text: ConnectivityFailed, Sources: []conversation.Citation{}}
	}

	resp := out.Response
	if resp.SessionID != "" && resp.SessionID != d.identity.Get() {
		d.identity.Adopt(resp.SessionID)
		d.logger.Info("session id adopted", zap.String("session_id", resp.SessionID))
	}
	citations := make([]conversation.Citation, 0, len(resp.Sources))
	for _, src := range resp.Sources {
		link, _ := sources.Resolve(src.Source)
		citations = append(citations, conversation.Citation{
			ContentID: src.Source,
			Part:      src.Part,
			Section:   src.Section,
			IsPrimary: src.IsPrimary,
			Link:      link,
		})
	}
	latency := out.Elapsed
	if resp.LatencyMs > 0 {
		latency = time.Duration(resp.LatencyMs * float64(time.Millisecond))
	}
	d.logger.Info("query answered",
		zap.Int("sources", len(citations)),
		zap.String("retrieval_mode", resp.RetrievalMode),
		zap.Duration("latency", latency),
	)
	return conversation.Message{
		Role:          conversation.RoleAssistant,
		Text:          resp.Answer,
		Sources:       citations,
		RetrievalMode: resp.RetrievalMode,
		Latency:       latency,
	}
}

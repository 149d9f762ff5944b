// Package devserver is a self-contained question-answering backend for local development.
// It serves the same POST /query and GET /health contract the widget talks to in production.
package devserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/csheth/docchat/internal/llm"
	"github.com/csheth/docchat/internal/retrieval"
)

const (
	maxQuestionChars = 2000
	maxSelectedChars = 5000
	historyTurns     = 3
	fullBookLimit    = 5
	supplementLimit  = 3
	snippetChars     = 200

	defaultSessionTTL = time.Hour
)

// Config wires the server's collaborators.
type Config struct {
	Index      *retrieval.Index
	Generator  llm.Client
	SessionTTL time.Duration
	Logger     *zap.Logger
	// Now and NewID exist for tests.
	Now   func() time.Time
	NewID func() string
}

// Server answers questions over an in-memory documentation index.
type Server struct {
	index     *retrieval.Index
	generator llm.Client
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string

	mu      sync.Mutex
	history *cache.Cache
}

// New builds a server, filling unset collaborators with working defaults.
func New(cfg Config) *Server {
	s := &Server{
		index:     cfg.Index,
		generator: cfg.Generator,
		logger:    cfg.Logger,
		now:       cfg.Now,
		newID:     cfg.NewID,
	}
	if s.index == nil {
		s.index = retrieval.Build(nil)
	}
	if s.generator == nil {
		s.generator = llm.Extractive{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s.history = cache.New(ttl, 2*ttl)
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/query", s.handleQuery)
	return r
}

// History returns the remembered turns of a session, oldest first.
func (s *Server) History(sessionID string) []llm.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyLocked(sessionID)
}

func (s *Server) historyLocked(sessionID string) []llm.Turn {
	raw, ok := s.history.Get(sessionID)
	if !ok {
		return nil
	}
	turns := raw.([]llm.Turn)
	out := make([]llm.Turn, len(turns))
	copy(out, turns)
	return out
}

func (s *Server) remember(sessionID string, turn llm.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append(s.historyLocked(sessionID), turn)
	if len(turns) > historyTurns {
		turns = turns[len(turns)-historyTurns:]
	}
	s.history.SetDefault(sessionID, turns)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

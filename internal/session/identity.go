package session

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorageKey is where the conversation identifier lives in tab storage.
const StorageKey = "chatbot_session_id"

// Identity owns the conversation identifier for one tab.
type Identity struct {
	store    Storage
	generate func() string
	logger   *zap.Logger
	id       string
}

// Option customizes an Identity.
type Option func(*Identity)

// WithGenerator overrides the identifier generator.
func WithGenerator(fn func() string) Option {
	return func(i *Identity) {
		if fn != nil {
			i.generate = fn
		}
	}
}

// WithLogger attaches a logger for storage failures.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Identity) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// NewIdentity returns an identity bound to store.
func NewIdentity(store Storage, opts ...Option) *Identity {
	if store == nil {
		store = NewMemoryStore()
	}
	id := &Identity{
		store:    store,
		generate: uuid.NewString,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(id)
	}
	id.logger = id.logger.Named("session")
	return id
}

// Get returns the current identifier, generating and persisting one on first use.
func (i *Identity) Get() string {
	if i.id != "" {
		return i.id
	}
	if stored, ok := i.store.Get(StorageKey); ok && stored != "" {
		i.id = stored
		return i.id
	}
	i.id = i.generate()
	i.persist("created")
	return i.id
}

// Adopt replaces the identifier with one issued by the backend.
func (i *Identity) Adopt(id string) {
	if id == "" || id == i.id {
		return
	}
	i.id = id
	i.persist("adopted")
}

func (i *Identity) persist(reason string) {
	if err := i.store.Set(StorageKey, i.id); err != nil {
		i.logger.Warn("persist session id failed", zap.String("reason", reason), zap.Error(err))
		return
	}
	i.logger.Debug("session id "+reason, zap.String("session_id", i.id))
}

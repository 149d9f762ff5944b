package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	values map[string]string
	sets   int
	err    error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{values: map[string]string{}}
}

func (s *recordingStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *recordingStore) Set(key, value string) error {
	s.sets++
	if s.err != nil {
		return s.err
	}
	s.values[key] = value
	return nil
}

func TestGetIsStableUntilAdopt(t *testing.T) {
	t.Parallel()

	store := newRecordingStore()
	identity := NewIdentity(store)

	first := identity.Get()
	require.NotEmpty(t, first)
	_, err := uuid.Parse(first)
	require.NoError(t, err, "generated ids are UUIDs")

	for i := 0; i < 5; i++ {
		assert.Equal(t, first, identity.Get())
	}
	assert.Equal(t, 1, store.sets, "only the first Get persists")
	assert.Equal(t, first, store.values[StorageKey])

	identity.Adopt("server-issued")
	assert.Equal(t, "server-issued", identity.Get())
	assert.Equal(t, "server-issued", store.values[StorageKey])
	assert.Equal(t, 2, store.sets)
}

func TestGetReusesStoredID(t *testing.T) {
	t.Parallel()

	store := newRecordingStore()
	store.values[StorageKey] = "existing"
	identity := NewIdentity(store, WithGenerator(func() string {
		t.Fatal("generator must not run when an id is stored")
		return ""
	}))
	assert.Equal(t, "existing", identity.Get())
	assert.Zero(t, store.sets)
}

func TestAdoptIgnoresEmptyAndSameID(t *testing.T) {
	t.Parallel()

	store := newRecordingStore()
	identity := NewIdentity(store, WithGenerator(func() string { return "generated" }))
	identity.Get()
	identity.Adopt("")
	identity.Adopt("generated")
	assert.Equal(t, "generated", identity.Get())
	assert.Equal(t, 1, store.sets)
}

func TestStorageFailureKeepsInMemoryID(t *testing.T) {
	t.Parallel()

	store := newRecordingStore()
	store.err = errors.New("quota exceeded")
	identity := NewIdentity(store, WithGenerator(func() string { return "generated" }))
	assert.Equal(t, "generated", identity.Get())
	assert.Equal(t, "generated", identity.Get())
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, ok := store.Get(StorageKey)
	assert.False(t, ok)
	require.NoError(t, store.Set(StorageKey, "abc"))
	v, ok := store.Get(StorageKey)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestFileStoreSurvivesReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tab", "state.json")
	first := NewIdentity(NewFileStore(path), WithGenerator(func() string { return "persisted-id" }))
	require.Equal(t, "persisted-id", first.Get())

	reloaded := NewIdentity(NewFileStore(path), WithGenerator(func() string { return "fresh" }))
	assert.Equal(t, "persisted-id", reloaded.Get())
}

func TestFileStoreToleratesCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path)
	_, ok := store.Get(StorageKey)
	assert.False(t, ok)
	require.NoError(t, store.Set(StorageKey, "recovered"))
	v, ok := store.Get(StorageKey)
	assert.True(t, ok)
	assert.Equal(t, "recovered", v)
}

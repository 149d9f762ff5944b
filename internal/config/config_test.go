package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/docchat/internal/backend"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DOCCHAT_SITE_HOST", "DOCCHAT_DOCS_DIR", "CHATBOT_API_URL", "DOCCHAT_BACKEND_URL",
		"DOCCHAT_STATE_FILE", "DOCCHAT_LOG_FILE", "DOCCHAT_DEV_ADDR", "DOCCHAT_LLM_PROVIDER",
		"DOCCHAT_LLM_MODEL", "DOCCHAT_LLM_ENDPOINT", "DOCCHAT_DEBUG", "DOCCHAT_BACKEND_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(Options{File: "", EnvFiles: []string{filepath.Join(dir, "missing.env")}})
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.Site.DocsDir)
	assert.Equal(t, 2*time.Minute, cfg.Backend.Timeout.Duration)
	assert.Equal(t, ":8000", cfg.Dev.Addr)
	assert.Equal(t, backend.LocalURL, cfg.BackendURL())
}

func TestLoadLayersFileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "docchat.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
[site]
host = "docs.example.com"
docs_dir = "content/docs"

[backend]
url = "https://file.example.com"
timeout = "30s"

[log]
debug = true
`), 0o644))
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DOCCHAT_BACKEND_URL=https://env.example.com/\n"), 0o644))
	// godotenv never overrides a variable that exists, even when empty.
	require.NoError(t, os.Unsetenv("DOCCHAT_BACKEND_URL"))
	t.Cleanup(func() { os.Unsetenv("DOCCHAT_BACKEND_URL") })

	cfg, err := Load(Options{File: file, EnvFiles: []string{envFile}})
	require.NoError(t, err)
	assert.Equal(t, "content/docs", cfg.Site.DocsDir)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout.Duration)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "https://env.example.com", cfg.BackendURL())
}

func TestLocalHostAlwaysUsesLocalBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCCHAT_SITE_HOST", "localhost")
	t.Setenv("CHATBOT_API_URL", "https://prod.example.com")

	cfg, err := Load(Options{EnvFiles: []string{}})
	require.NoError(t, err)
	assert.Equal(t, backend.LocalURL, cfg.BackendURL())
}

func TestExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.toml"), EnvFiles: []string{}})
	assert.Error(t, err)
}

func TestInvalidEnvValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCCHAT_DEBUG", "sometimes")
	_, err := Load(Options{EnvFiles: []string{}})
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("DOCCHAT_BACKEND_TIMEOUT", "forever")
	_, err = Load(Options{EnvFiles: []string{}})
	assert.Error(t, err)
}

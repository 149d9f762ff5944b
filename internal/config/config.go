package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/csheth/docchat/internal/backend"
)

// DefaultFile is read from the working directory when no explicit file is given.
const DefaultFile = "docchat.toml"

// Config aggregates every runtime option.
type Config struct {
	Site    SiteConfig    `toml:"site"`
	Backend BackendConfig `toml:"backend"`
	State   StateConfig   `toml:"state"`
	Log     LogConfig     `toml:"log"`
	Dev     DevConfig     `toml:"dev"`
	LLM     LLMConfig     `toml:"llm"`
}

// SiteConfig describes where the documentation lives and is served from.
type SiteConfig struct {
	Host    string `toml:"host"`
	DocsDir string `toml:"docs_dir"`
}

// BackendConfig describes the question-answering service.
type BackendConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// StateConfig controls tab-scoped storage. An empty file keeps the session in memory.
type StateConfig struct {
	File string `toml:"file"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Path  string `toml:"path"`
	Debug bool   `toml:"debug"`
}

// DevConfig configures the local development backend.
type DevConfig struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// LLMConfig selects the generator used by the development backend.
type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	Endpoint string `toml:"endpoint"`
}

// Duration decodes TOML strings such as "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit TOML path; a missing explicit file is an error.
	File string
	// EnvFiles are dotenv files; missing ones are skipped.
	EnvFiles []string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Site:    SiteConfig{DocsDir: "docs"},
		Backend: BackendConfig{Timeout: Duration{2 * time.Minute}},
		Dev:     DevConfig{Addr: ":8000", SessionTTL: Duration{time.Hour}},
	}
}

// Load layers defaults, the TOML file, dotenv files and the environment.
func Load(opts Options) (Config, error) {
	cfg := Default()

	path := opts.File
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", file, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BackendURL resolves the backend for the configured site host.
func (c Config) BackendURL() string {
	return backend.ResolveBaseURL(c.Site.Host, c.Backend.URL)
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Site.Host, "DOCCHAT_SITE_HOST")
	setString(&cfg.Site.DocsDir, "DOCCHAT_DOCS_DIR")
	setString(&cfg.Backend.URL, "CHATBOT_API_URL")
	setString(&cfg.Backend.URL, "DOCCHAT_BACKEND_URL")
	setString(&cfg.State.File, "DOCCHAT_STATE_FILE")
	setString(&cfg.Log.Path, "DOCCHAT_LOG_FILE")
	setString(&cfg.Dev.Addr, "DOCCHAT_DEV_ADDR")
	setString(&cfg.LLM.Provider, "DOCCHAT_LLM_PROVIDER")
	setString(&cfg.LLM.Model, "DOCCHAT_LLM_MODEL")
	setString(&cfg.LLM.Endpoint, "DOCCHAT_LLM_ENDPOINT")

	if raw := strings.TrimSpace(os.Getenv("DOCCHAT_DEBUG")); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid DOCCHAT_DEBUG value: %q", raw)
		}
		cfg.Log.Debug = debug
	}
	if raw := strings.TrimSpace(os.Getenv("DOCCHAT_BACKEND_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid DOCCHAT_BACKEND_TIMEOUT value: %q", raw)
		}
		cfg.Backend.Timeout = Duration{timeout}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

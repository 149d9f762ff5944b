package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/docchat/internal/config"
	"github.com/csheth/docchat/internal/devserver"
	"github.com/csheth/docchat/internal/docs"
	"github.com/csheth/docchat/internal/llm"
	"github.com/csheth/docchat/internal/logging"
	"github.com/csheth/docchat/internal/retrieval"
)

const shutdownGrace = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (default ./docchat.toml when present)")
	addr := flag.String("addr", "", "listen address (default :8000)")
	docsDir := flag.String("docs", "", "documentation directory to index")
	provider := flag.String("llm-provider", "", "answer generator: extractive, ollama or openai")
	model := flag.String("llm-model", "", "model name for the generator")
	endpoint := flag.String("llm-endpoint", "", "custom Ollama host or OpenAI-compatible base URL")
	logFile := flag.String("log-file", "", "also write JSON logs to this file")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	cfg, err := config.Load(config.Options{File: *configPath})
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	override(&cfg.Dev.Addr, *addr)
	override(&cfg.Site.DocsDir, *docsDir)
	override(&cfg.LLM.Provider, *provider)
	override(&cfg.LLM.Model, *model)
	override(&cfg.LLM.Endpoint, *endpoint)
	override(&cfg.Log.Path, *logFile)
	if *debug {
		cfg.Log.Debug = true
	}

	logger, err := logging.New(logging.Options{Path: cfg.Log.Path, Debug: cfg.Log.Debug, Console: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging error:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	library, err := docs.Load(cfg.Site.DocsDir)
	if err != nil {
		logger.Warn("serving without docs", zap.String("dir", cfg.Site.DocsDir), zap.Error(err))
		library = docs.NewLibrary(nil)
	}
	index := retrieval.Build(library.Pages())

	generator, err := llm.NewFromEnv(llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		Endpoint: cfg.LLM.Endpoint,
	})
	if err != nil {
		logger.Warn("falling back to extractive answers", zap.Error(err))
		generator = llm.Extractive{}
	}

	srv := devserver.New(devserver.Config{
		Index:      index,
		Generator:  generator,
		SessionTTL: cfg.Dev.SessionTTL.Duration,
		Logger:     logger,
	})
	httpServer := &http.Server{
		Addr:              cfg.Dev.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("dev backend listening",
		zap.String("addr", cfg.Dev.Addr),
		zap.Int("pages", library.Len()),
		zap.Int("passages", index.Len()),
		zap.String("generator", generator.Name()),
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/docchat/internal/backend"
	"github.com/csheth/docchat/internal/config"
	"github.com/csheth/docchat/internal/dispatch"
	"github.com/csheth/docchat/internal/docs"
	"github.com/csheth/docchat/internal/logging"
	"github.com/csheth/docchat/internal/selection"
	"github.com/csheth/docchat/internal/session"
	"github.com/csheth/docchat/internal/tui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("docchat", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a TOML config file (default ./docchat.toml when present)")
	docsDir := flags.String("docs", "", "documentation directory to read")
	backendURL := flags.String("backend-url", "", "question-answering backend (overrides CHATBOT_API_URL)")
	siteHost := flags.String("site-host", "", "host the docs are served from; localhost forces the local backend")
	stateFile := flags.String("state-file", "", "persist the session id in this file instead of memory")
	logFile := flags.String("log-file", "", "log file (default in the user cache dir)")
	debug := flags.Bool("debug", false, "log at debug level")
	noAltScreen := flags.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	page := flags.String("page", "", "route of the page to open first (eg. /docs/intro)")
	ask := flags.String("ask", "", "ask one question, print the answer and exit")
	selected := flags.String("selected", "", "with -ask: passage the question is about")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(config.Options{File: *configPath})
	if err != nil {
		fmt.Fprintln(stderr, "config error:", err)
		return 1
	}
	override(&cfg.Site.DocsDir, *docsDir)
	override(&cfg.Backend.URL, *backendURL)
	override(&cfg.Site.Host, *siteHost)
	override(&cfg.State.File, *stateFile)
	override(&cfg.Log.Path, *logFile)
	if *debug {
		cfg.Log.Debug = true
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = logging.DefaultPath()
	}

	logger, err := logging.New(logging.Options{Path: cfg.Log.Path, Debug: cfg.Log.Debug})
	if err != nil {
		fmt.Fprintln(stderr, "logging disabled:", err)
		logger = logging.Nop()
	}
	defer func() { _ = logger.Sync() }()

	var store session.Storage = session.NewMemoryStore()
	if cfg.State.File != "" {
		store = session.NewFileStore(cfg.State.File)
	}
	client := backend.New(backend.Config{BaseURL: cfg.BackendURL(), Timeout: cfg.Backend.Timeout.Duration})
	dispatcher := dispatch.New(dispatch.Config{
		Identity: session.NewIdentity(store, session.WithLogger(logger)),
		Backend:  client,
		Logger:   logger,
	})
	logger.Info("docchat starting",
		zap.String("backend", client.BaseURL()),
		zap.String("docs", cfg.Site.DocsDir),
		zap.Bool("one_shot", *ask != ""),
	)

	if *ask != "" {
		return askOnce(dispatcher, *ask, *selected, stdout, stderr)
	}

	library, err := docs.Load(cfg.Site.DocsDir)
	if err != nil {
		logger.Warn("docs unavailable", zap.String("dir", cfg.Site.DocsDir), zap.Error(err))
		library = docs.NewLibrary(nil)
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Library:    library,
			Dispatcher: dispatcher,
			Health:     client,
			Logger:     logger,
			StartRoute: *page,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		logger.Error("program error", zap.Error(err))
		fmt.Fprintln(stderr, "program error:", err)
		return 1
	}
	return 0
}

// askOnce runs a single dispatch cycle and prints the reply with its sources.
func askOnce(d *dispatch.Dispatcher, question, passage string, stdout, stderr io.Writer) int {
	if passage != "" {
		ctx, ok := selection.Capture(selection.SourceFunc(func() string { return passage }), time.Now())
		if ok {
			d.Pending().Set(ctx)
		} else {
			fmt.Fprintf(stderr, "ignoring -selected: passages must be %d to %d characters\n", selection.MinChars, selection.MaxChars)
		}
	}

	ex, ok := d.Begin(question)
	if !ok {
		fmt.Fprintln(stderr, "question is empty")
		return 2
	}
	out := ex.Run(context.Background())
	reply := d.Complete(out)

	fmt.Fprintln(stdout, reply.Text)
	if len(reply.Sources) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Sources:")
		for _, src := range reply.Sources {
			line := "  - " + src.Label()
			if src.IsPrimary {
				line += " [primary]"
			}
			if src.Linked() {
				line += " " + src.Link
			}
			fmt.Fprintln(stdout, line)
		}
	}
	if out.Err != nil {
		var statusErr *backend.StatusError
		if !errors.As(out.Err, &statusErr) {
			fmt.Fprintln(stderr, "request failed:", out.Err)
		}
		return 1
	}
	return 0
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// driftchat - a terminal client for streaming LLM chat.
//
// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/driftlabs/driftchat/internal/api"
	"github.com/driftlabs/driftchat/internal/chat"
	"github.com/driftlabs/driftchat/internal/config"
	"github.com/driftlabs/driftchat/internal/i18n"
	"github.com/driftlabs/driftchat/internal/storage"
	chatui "github.com/driftlabs/driftchat/internal/ui/chat"
	"github.com/driftlabs/driftchat/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args := os.Args[1:]
	cmd := "chat"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") && args[0] != "" {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "chat":
		runChat(args)
	case "login":
		runLogin(args)
	case "version":
		fmt.Printf("driftchat %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\nUsage: driftchat [chat|login|version] [flags]\n", cmd)
		os.Exit(2)
	}
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

func runChat(args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (default ~/.driftchat/config.toml)")
	dbPath := fs.String("db", "", "path to the conversation database (default ~/.driftchat/driftchat.db)")
	debug := fs.Bool("debug", false, "enable debug logging")
	ephemeral := fs.Bool("ephemeral", false, "keep conversations in memory only")
	fs.Parse(args)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "driftchat chat requires an interactive terminal")
		os.Exit(1)
	}

	log := newLogger(*debug)

	// Config
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Storage
	var store storage.Store
	if *ephemeral {
		store = storage.NewMemoryStore()
	} else {
		path := *dbPath
		if path == "" {
			dir, derr := config.Dir()
			if derr != nil {
				fmt.Fprintf(os.Stderr, "Failed to resolve data directory: %v\n", derr)
				os.Exit(1)
			}
			if merr := os.MkdirAll(dir, 0755); merr != nil {
				fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", merr)
				os.Exit(1)
			}
			path = filepath.Join(dir, "driftchat.db")
		}
		store, err = storage.OpenSQLite(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open conversation database: %v\n", err)
			os.Exit(1)
		}
	}
	defer store.Close()

	// Transport
	client := api.NewClient(log)
	client.Configure(api.Config{
		APIKey:  cfg.API.Key,
		BaseURL: cfg.API.BaseURL,
		Model:   cfg.Model.Default,
	})

	// Conversation engine
	printer := i18n.NewPrinter(cfg.UI.Language)
	service := chat.NewService(store, client, printer, log)
	service.Init(context.Background())

	// Config changes (API key edits, model switches) apply live.
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if *configPath == "" {
		if path, perr := config.Path(); perr == nil {
			go func() {
				_ = config.Watch(watchCtx, path, func(next *config.Config) {
					client.Configure(api.Config{
						APIKey:  next.API.Key,
						BaseURL: next.API.BaseURL,
						Model:   next.Model.Default,
					})
					log.Info().Msg("configuration reloaded")
				})
			}()
		}
	}

	// UI
	theme := styles.New(cfg.UI.Theme)
	models := make([]string, 0, len(cfg.Model.Available))
	for _, entry := range cfg.Model.Available {
		models = append(models, entry.ID)
	}
	ui := chatui.New(service, printer, theme, client, models)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	ui.SetSender(program.Send)

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// LOGIN COMMAND
// =============================================================================

// runLogin is a stub; accounts do not exist yet and the flow only prints a
// notice in the configured language.
func runLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	fs.Parse(args)

	lang := "en"
	if cfg, err := config.Load(); err == nil {
		lang = cfg.UI.Language
	}
	fmt.Println(i18n.NewPrinter(lang).LoginStub())
}

// =============================================================================
// LOGGING
// =============================================================================

// newLogger writes structured logs to ~/.driftchat/driftchat.log. Stdout
// belongs to the TUI, so file logging is the only sink; if the file cannot
// be opened logging is disabled rather than corrupting the display.
func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	dir, err := config.Dir()
	if err != nil {
		return zerolog.Nop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zerolog.Nop()
	}
	file, err := os.OpenFile(filepath.Join(dir, "driftchat.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return zerolog.Nop()
	}

	return zerolog.New(file).Level(level).With().Timestamp().Logger()
}

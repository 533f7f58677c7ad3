// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the emojiserve picker engine as an IPC server or a CLI.

emojiserve finds emoji by typed keywords. Queries are split into terms and an
entry matches when every term fuzzily prefixes some word of its description.
Results are ranked by frecency: past picks made under a related query, decayed
with a seven day half-life. The five best results come back with per
character highlight segments for the description.

# Usage

Start the msgpack server on stdin/stdout:

	emojiserve

Run the interactive CLI with debug logs:

	emojiserve -c -d

Use an external corpus and image directory:

	emojiserve --corpus emoji.txt --assets ~/.cache/emoji/png

# Configuration

Settings live in a TOML file created with defaults on first run:

	[history]
	path = "~/.emojiserve/history.jsonl"
	enabled = true

	[frecency]
	half_life_days = 7.0

	[corpus]
	path = ""

	[assets]
	dir = ""
	ext = ".png"

Flags override the file. An empty corpus path uses the builtin table.

# History

Each keystroke and pick is appended to the history file as one JSON line.
Only picks are read back. A missing or unwritable history never stops the
picker; it just ranks without history.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/emojiserve/internal/cli"
	"github.com/bastiangx/emojiserve/internal/logger"
	"github.com/bastiangx/emojiserve/internal/utils"
	"github.com/bastiangx/emojiserve/pkg/assets"
	"github.com/bastiangx/emojiserve/pkg/config"
	"github.com/bastiangx/emojiserve/pkg/corpus"
	"github.com/bastiangx/emojiserve/pkg/frecency"
	"github.com/bastiangx/emojiserve/pkg/history"
	"github.com/bastiangx/emojiserve/pkg/server"
	"github.com/bastiangx/emojiserve/pkg/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	goflags "github.com/jessevdk/go-flags"
)

const (
	Version = "0.1.0-beta"
	AppName = "emojiserve"
)

// options are the command line flags.
type options struct {
	Version bool   `long:"version" description:"Show current version"`
	Debug   bool   `short:"d" long:"debug" description:"Toggle debug mode"`
	CLI     bool   `short:"c" long:"cli" description:"Run the interactive CLI instead of the IPC server"`
	Config  string `long:"config" description:"Path to config file"`
	Corpus  string `long:"corpus" description:"Emoji table, one 'glyph| description| code' row per line"`
	History string `long:"history" description:"History file path"`
	NoHist  bool   `long:"no-history" description:"Do not read or write history"`
	Assets  string `long:"assets" description:"Directory of per-code images"`
	NoColor bool   `long:"no-color" description:"Plain CLI output"`
}

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		os.Stderr.WriteString("\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, corpus, history and assets into a session and hands it
// to the server or the CLI.
func main() {
	sigHandler()

	var opts options
	parser := goflags.NewParser(&opts, goflags.Default)
	parser.Name = AppName
	if _, err := parser.Parse(); err != nil {
		if goflags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if opts.Version {
		showVersion()
		os.Exit(0)
	}

	logger.Setup(opts.Debug)

	resolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
	} else {
		log.Debug("Runtime", "info", resolver.GetRuntimeInfo())
	}

	cfg, cfgPath, err := config.LoadConfigWithPriority(opts.Config, resolver)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(cfgPath))
	applyFlags(cfg, &opts)

	entries := loadCorpus(cfg.Corpus.Path)
	log.Debugf("Corpus has %d entries", len(entries))

	sess := session.New(session.Options{
		Corpus: entries,
		Log:    history.New(cfg.HistoryPath),
		Images: newImages(cfg.Assets),
		Scorer: frecency.NewScorer(cfg.HalfLife()),
	})

	if opts.CLI {
		h := cli.NewInputHandler(sess, entries, os.Stdout, cfg.CLI.Color)
		if err := h.Start(os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(sess, os.Stdin, os.Stdout)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// applyFlags lets command line flags override the config file.
func applyFlags(cfg *config.Config, opts *options) {
	if opts.Corpus != "" {
		cfg.Corpus.Path = opts.Corpus
	}
	if opts.History != "" {
		cfg.History.Path = opts.History
		cfg.History.Enabled = true
	}
	if opts.NoHist {
		cfg.History.Enabled = false
	}
	if opts.Assets != "" {
		cfg.Assets.Dir = opts.Assets
	}
	if opts.NoColor {
		cfg.CLI.Color = false
	}
}

func loadCorpus(path string) []corpus.Entry {
	if path == "" {
		return corpus.Default()
	}
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		log.Fatalf("Failed to resolve corpus path %s: %v", path, err)
	}
	entries, err := corpus.LoadFile(expanded)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	return entries
}

func newImages(cfg config.AssetsConfig) assets.Lookup {
	if cfg.Dir == "" {
		return assets.None{}
	}
	dir, err := utils.ExpandHome(cfg.Dir)
	if err != nil {
		log.Warnf("Ignoring assets dir %s: %v", cfg.Dir, err)
		return assets.None{}
	}
	return assets.NewCache(assets.NewDirStore(dir, cfg.Ext))
}

// showVersion prints a small styled banner.
func showVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("[ emojiserve ] find emoji by name")
	l.Print("", "version", Version)
	l.Print("use -h or --help to see available options")
}

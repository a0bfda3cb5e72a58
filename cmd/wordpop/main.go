// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the wordpop completion popup as a msgpack IPC server or as
an interactive CLI [DBG].

wordpop owns the popup half of editor completion: given the candidates an
analysis service returned, it ranks them against what the user keeps typing,
previews and commits the chosen one as document transactions, and lays out
the documentation panel next to the menu.

# Usage

Start the server with the catalog lists in ./catalog:

	wordpop -items catalog

Run the CLI over the "go" list with debug logging:

	wordpop -c -list go -d

A relative -items dir is looked up in the working directory, next to the
binary, then in the config directory. It holds one completion list per file: LSP completion
items as JSON (go.json) or the compact msgpack form (go.msgpack).

# Configuration

Runtime configuration is a TOML file, created with defaults when missing:

	[menu]
	max_rows = 10
	min_width = 12

	[docs]
	side_min_width = 30
	stacked_max_height = 15
	style = "dark"

	[server]
	watch = true
	encoding = "utf-16"

With watch on, edits to the config file and catalog directory are picked up
while the server runs; otherwise the config is re-read every
reload_interval requests.

# Command Line Flags

	-items string
	    Directory containing catalog lists (default "catalog")
	-config string
	    Path to a config file
	-c  Run CLI mode instead of server mode
	-list string
	    Catalog list the CLI completes from (default "go")
	-d  Enable debug mode with detailed logging
	-reset-config
	    Rewrite the default config file and exit
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordpop/internal/cli"
	"github.com/bastiangx/wordpop/internal/logger"
	"github.com/bastiangx/wordpop/internal/monitor"
	"github.com/bastiangx/wordpop/internal/utils"
	"github.com/bastiangx/wordpop/pkg/catalog"
	"github.com/bastiangx/wordpop/pkg/config"
	"github.com/bastiangx/wordpop/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordpop"
	gh      = "https://github.com/bastiangx/wordpop"
)

// sigHandler cancels the returned context on interrupt and exits on the second one.
func sigHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cancel()
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
	return ctx
}

// main only manages the flow; the server and CLI packages do the work.
func main() {
	ctx := sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	itemsDir := flag.String("items", "catalog", "Directory containing catalog lists")
	configFile := flag.String("config", "", "Path to a custom config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	list := flag.String("list", "go", "Catalog list the CLI completes from")
	resetConfig := flag.Bool("reset-config", false, "Rewrite the default config file and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode, log.WarnLevel)

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Print("Config rebuilt", "path", config.GetActiveConfigPath(""))
		return
	}

	cfg, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup(*debugMode, cfg.LogLevel())
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	if configDir, err := config.GetConfigDir(); err == nil {
		if pr, err := utils.NewPathResolver(configDir); err == nil {
			if dir, ok := pr.FindDir(*itemsDir, catalog.IsCatalogFile); ok {
				*itemsDir = dir
			}
		}
	}

	cat := catalog.New()
	if utils.FileExists(*itemsDir) {
		loaded, err := catalog.LoadDir(*itemsDir)
		if err != nil {
			log.Warnf("Some catalog files failed to load: %v", err)
		}
		if loaded != nil {
			cat = loaded
		}
	} else {
		log.Warnf("No catalog dir at %s, running with empty lists...", *itemsDir)
	}

	// CLI is mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(cfg, cat, *list, os.Stdin, os.Stdout)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(cfg, configPath, cat, os.Stdin, os.Stdout)
	if cfg.Server.Watch {
		go watch(ctx, srv, configPath, *itemsDir)
	}

	showStartupInfo(cat)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// watch reloads the config and catalog files as they change on disk.
func watch(ctx context.Context, srv *server.Server, configPath, itemsDir string) {
	var paths []string
	match := []func(string) bool{}
	if configPath != "" {
		paths = append(paths, configPath)
		match = append(match, monitor.MatchFile(configPath))
	}
	if utils.FileExists(itemsDir) {
		paths = append(paths, itemsDir)
		match = append(match, catalog.IsCatalogFile)
	}
	if len(paths) == 0 {
		return
	}
	wlog := logger.New("watch")

	err := monitor.Watch(ctx, paths, monitor.MatchAny(match...), monitor.DefaultDebounce, func(changed []string) {
		for _, path := range changed {
			switch {
			case configPath != "" && monitor.MatchFile(configPath)(path):
				if err := srv.ReloadConfig(); err != nil {
					wlog.Warnf("Config reload failed: %v", err)
				}
			case !utils.FileExists(path):
				srv.Catalog().Remove(path)
				wlog.Infof("Dropped catalog list %s", catalog.ListName(path))
			default:
				if err := srv.Catalog().LoadFile(path); err != nil {
					wlog.Warnf("Catalog reload failed: %v", err)
				} else {
					wlog.Infof("Reloaded catalog list %s", catalog.ListName(path))
				}
			}
		}
	})
	if err != nil {
		wlog.Warnf("File watching disabled: %v", err)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ wordpop ] Completion popups for any editor")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(cat *catalog.Catalog) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	dir := cat.Dir()
	if dir == "" {
		dir = "none"
	}
	log.Infof("catalog dir: ( %s ), lists: %v", dir, cat.Names())
	log.Info("status: ready")
}

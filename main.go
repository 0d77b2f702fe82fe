// freqdash - terminal dashboard for a chat and ML training backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/freqdash/internal/cli"
	"github.com/jeranaias/freqdash/internal/ui/shell"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	if cmd == cli.CmdTUI {
		err = runTUI(args)
	} else {
		setupCLILogging(args)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = cli.Run(ctx, cmd, args)
		stop()
	}

	cli.HandleErrorAndExit(err, args.JSON)
}

// setupCLILogging sends request logs to stderr with --verbose and drops
// them otherwise.
func setupCLILogging(args cli.Args) {
	if args.Verbose && !args.Quiet {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.Ltime | log.Lmicroseconds)
		return
	}
	log.SetOutput(io.Discard)
}

// runTUI starts the dashboard. The terminal belongs to Bubble Tea, so logs
// go to the configured file or nowhere.
func runTUI(args cli.Args) error {
	if err := cli.RequiresTTY("start the dashboard"); err != nil {
		return err
	}

	cfg, path, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}

	log.SetOutput(io.Discard)
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0o755); err == nil {
			f, err := tea.LogToFile(cfg.Logging.File, "freqdash")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
			} else {
				defer f.Close()
			}
		}
	}
	log.Printf("starting freqdash %s against %s", Version, cfg.API.BaseURL)

	m := shell.New(cfg, cfg.NewClient())
	if path != "" {
		if err := m.WatchConfig(path); err != nil {
			log.Printf("config watch disabled: %v", err)
		}
	}
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse wheel scrolls the chat and metrics views
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running freqdash: %w", err)
	}
	return nil
}

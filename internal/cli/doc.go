// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// commands of freqdash.
//
// # Usage
//
//	cmd, args := cli.Parse()
//	if cmd == cli.CmdTUI {
//	    // start the dashboard
//	}
//	cli.HandleErrorAndExit(cli.Run(ctx, cmd, args), args.JSON)
//
// # Commands
//
//   - tui: the dashboard (default)
//   - chat: line-based chat against the message endpoint
//   - ask: one message, reply rendered as markdown
//   - train: start a training run
//   - metrics: print the metrics series
//   - clear: clear the remote chat history
//   - config: show, path, init, get, set
//   - doctor: configuration and connectivity checks
//   - version, help
//
// Every command except chat and tui supports --json.
package cli

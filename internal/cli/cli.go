// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdTrain
	CmdMetrics
	CmdClear
	CmdConfig
	CmdDoctor
	CmdVersion
	CmdHelp
	CmdUnknown
)

var commandNames = map[Command]string{
	CmdTUI:     "tui",
	CmdChat:    "chat",
	CmdAsk:     "ask",
	CmdTrain:   "train",
	CmdMetrics: "metrics",
	CmdClear:   "clear",
	CmdConfig:  "config",
	CmdDoctor:  "doctor",
	CmdVersion: "version",
	CmdHelp:    "help",
}

// String returns the command name as typed on the command line.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	URL        string // overrides api.base_url
	ConfigPath string // explicit config file
	JSON       bool
	Verbose    bool
	Quiet      bool

	// Command-specific
	Query      string // ask message or train description
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Limit      int  // metrics: most recent rows to show
	Force      bool // config init: overwrite

	// Unknown holds the unrecognized command word, if any.
	Unknown string

	// Raw args (remaining after the command word)
	Raw []string
}

const usageText = `freqdash - dashboard for a chat and ML training backend
Version: %s

Usage:
  freqdash [flags] [command]

Commands:
  tui                          Start the dashboard (default)
  chat                         Interactive chat in the terminal
  ask <message>                Send one message and print the reply
  train <description>          Start a training run
  metrics [--limit N]          Print the metrics series as a table and chart
  clear                        Clear the remote chat history
  config [show|path|init|get|set]
                               Show or edit the configuration
  doctor                       Check configuration and connectivity
  version                      Print version information
  help                         Show this help

Global flags:
  --url URL                    Backend base URL (overrides config)
  --config PATH                Config file (toml, json or yaml)
  --json                       Machine-readable output
  -v, --verbose                Log requests to stderr
  -q, --quiet                  Print only results

Examples:
  freqdash --url http://localhost:8000
  freqdash ask "What is the current learning rate?"
  freqdash train "resnet50 on cifar10, 20 epochs"
  freqdash metrics --json
  freqdash config set ui.theme light

Environment:
  FREQDASH_API_URL, FREQDASH_TIMEOUT, FREQDASH_METRICS_TTL,
  FREQDASH_THEME, FREQDASH_LOG_FILE, FREQDASH_VERBOSE
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "freqdash version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments and returns the command and args.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui", "dashboard":
		return CmdTUI, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "ask":
		parsedArgs.Query = JoinPositionalArgs(NewArgParser(remaining), 0)
		return CmdAsk, parsedArgs

	case "train", "training":
		parsedArgs.Query = JoinPositionalArgs(NewArgParser(remaining), 0)
		return CmdTrain, parsedArgs

	case "metrics":
		parseMetricsArgs(&parsedArgs, remaining)
		return CmdMetrics, parsedArgs

	case "clear":
		return CmdClear, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "doctor", "diag":
		return CmdDoctor, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		parsedArgs.Unknown = cmd
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Global flags may appear anywhere on the line.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--url":
			if i+1 < len(args) {
				i++
				parsedArgs.URL = args[i]
			}
		case "--config":
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--url="):
				parsedArgs.URL = strings.TrimPrefix(arg, "--url=")
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

// parseMetricsArgs parses metrics command specific arguments.
func parseMetricsArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	if v := p.Flag("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			args.Limit = n
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	args.Subcommand = p.Subcommand()
	args.ConfigKey = p.Positional(1)
	args.ConfigVal = JoinPositionalArgs(p, 2)
	args.Force = p.BoolFlag("force")
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes a non-TUI command against stdout.
func Run(ctx context.Context, cmd Command, args Args) error {
	switch cmd {
	case CmdVersion:
		return runVersion(os.Stdout, args)
	case CmdHelp:
		PrintUsage(os.Stdout)
		return nil
	case CmdUnknown:
		return NewValidationErrorWithExample("command", args.Unknown, "unknown command", "freqdash help")
	case CmdConfig:
		return runConfig(newStdEnv(args), args)
	case CmdDoctor:
		return runDoctor(ctx, newStdEnv(args), args)
	}

	env, err := NewEnv(args)
	if err != nil {
		return err
	}

	switch cmd {
	case CmdChat:
		return runChat(ctx, env, args)
	case CmdAsk:
		return runAsk(ctx, env, args)
	case CmdTrain:
		return runTrain(ctx, env, args)
	case CmdMetrics:
		return runMetrics(ctx, env, args)
	case CmdClear:
		return runClear(ctx, env, args)
	default:
		return fmt.Errorf("command %s cannot run outside the dashboard", cmd)
	}
}

// runVersion handles the "version" command with JSON output support.
func runVersion(w io.Writer, args Args) error {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		return NewJSONResponse("version", data).PrintTo(w)
	}
	PrintVersion(w)
	return nil
}

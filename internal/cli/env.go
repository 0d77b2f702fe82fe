// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jeranaias/freqdash/internal/api"
	"github.com/jeranaias/freqdash/internal/config"
)

// Env is what a command runs against. Tests build one directly with
// buffers in place of the standard streams.
type Env struct {
	Out io.Writer
	Err io.Writer
	In  io.Reader

	// Interactive is true when In is a terminal.
	Interactive bool
	// Pretty is true when Out is a terminal and colors are allowed.
	Pretty bool

	Config     *config.Config
	ConfigPath string
	Client     *api.Client
}

// newStdEnv returns an Env on the standard streams with no config loaded.
func newStdEnv(args Args) *Env {
	return &Env{
		Out:         os.Stdout,
		Err:         os.Stderr,
		In:          os.Stdin,
		Interactive: IsTTY(),
		Pretty:      ColorsEnabled() && !args.JSON,
		ConfigPath:  args.ConfigPath,
	}
}

// NewEnv loads the configuration named by args (or the default one),
// applies --url and builds the API client.
func NewEnv(args Args) (*Env, error) {
	env := newStdEnv(args)

	cfg, path, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}
	env.Config = cfg
	env.ConfigPath = path
	env.Client = cfg.NewClient()
	return env, nil
}

// LoadConfig loads the config for a command line and returns it with the
// path it came from ("" for built-in defaults).
func LoadConfig(args Args) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if args.ConfigPath != "" {
		config.LoadDotEnv()
		path = args.ConfigPath
		cfg, err = config.LoadFromPath(path)
		if err != nil {
			return nil, path, err
		}
	} else {
		path = config.ActivePath()
		cfg, err = config.Load()
		if cfg == nil {
			return nil, path, err
		}
		if err != nil {
			log.Printf("config: falling back to defaults: %v", err)
			path = ""
		}
	}

	if args.URL != "" {
		cfg.API.BaseURL = args.URL
		if err := cfg.Validate(); err != nil {
			return nil, path, fmt.Errorf("invalid --url: %w", err)
		}
	}
	return cfg, path, nil
}

// printf writes to Out unless quiet output was requested.
func (e *Env) printf(quiet bool, format string, a ...interface{}) {
	if quiet {
		return
	}
	fmt.Fprintf(e.Out, format, a...)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)      Display the effective configuration
//   path                Show the configuration file path
//   init [--force]      Write a default config file
//   get <key>           Print one value
//   set <key> <value>   Change one value in the config file
//   reset               Overwrite the config file with defaults
//
// Examples:
//   freqdash config
//   freqdash config show --json
//   freqdash config set api.base_url http://trainer:8000
//   freqdash config set metrics.ttl_ms 60000
//   freqdash config get ui.theme

package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jeranaias/freqdash/internal/config"
)

func runConfig(env *Env, args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(env, args)
	case "path":
		return configPath(env, args)
	case "init":
		return configInit(env, args, args.Force)
	case "reset":
		return configInit(env, args, true)
	case "get":
		return configGet(env, args)
	case "set":
		return configSet(env, args)
	default:
		return NewValidationErrorWithExample("config subcommand", args.Subcommand,
			"must be one of show, path, init, get, set, reset", "freqdash config set ui.theme dark")
	}
}

// targetPath is the file config init/set/reset write to: --config, else
// the active file, else the default TOML location.
func targetPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	if p := config.ActivePath(); p != "" {
		return p, nil
	}
	return config.ConfigPathTOML()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// SHOW / GET
// =============================================================================

func configShow(env *Env, args Args) error {
	cfg, path, err := LoadConfig(args)
	if err != nil {
		return err
	}

	values := make(map[string]interface{})
	for _, key := range config.GetAllKeys() {
		if v, err := cfg.Get(key); err == nil {
			values[key] = v
		}
	}
	for name, value := range cfg.API.Headers {
		values["api.headers."+name] = maskSecret(value)
	}

	if args.JSON {
		return NewJSONResponse("config", ConfigData{
			Path:   path,
			Exists: path != "" && fileExists(path),
			Values: values,
		}).PrintTo(env.Out)
	}

	source := path
	if source == "" {
		source = "(built-in defaults)"
	}
	fmt.Fprintln(env.Out, TitleStyle.Render("freqdash configuration"))
	fmt.Fprintf(env.Out, "%s %s\n\n", RenderLabel("File:", 8), DimStyle.Render(source))

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	section := ""
	for _, key := range keys {
		if s := strings.SplitN(key, ".", 2)[0]; s != section && strings.Contains(key, ".") {
			section = s
			fmt.Fprintln(env.Out, TitleStyle.Render("["+section+"]"))
		}
		fmt.Fprintf(env.Out, "  %s %s\n", RenderLabel(key, 28), ValueStyle.Render(fmt.Sprint(values[key])))
	}
	return nil
}

func configGet(env *Env, args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "freqdash config get api.base_url")
	}
	cfg, _, err := LoadConfig(args)
	if err != nil {
		return err
	}
	value, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{
			"key":   args.ConfigKey,
			"value": value,
		}).PrintTo(env.Out)
	}
	fmt.Fprintln(env.Out, value)
	return nil
}

func configPath(env *Env, args Args) error {
	path, err := targetPath(args)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{
			"path":   path,
			"exists": fileExists(path),
		}).PrintTo(env.Out)
	}
	fmt.Fprintln(env.Out, path)
	return nil
}

// =============================================================================
// INIT / SET
// =============================================================================

func configInit(env *Env, args Args, force bool) error {
	path, err := targetPath(args)
	if err != nil {
		return err
	}
	if fileExists(path) && !force {
		return NewValidationErrorWithExample("config", path, "file already exists", "freqdash config init --force")
	}
	if err := config.SaveTo(config.Default(), path); err != nil {
		return NewCommandError("config", "write defaults", err)
	}
	env.printf(args.Quiet || args.JSON, "%s Wrote default configuration to %s\n", SuccessStyle.Render("[OK]"), path)
	return nil
}

// configSet edits the file itself, so environment overrides are not
// written back.
func configSet(env *Env, args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "freqdash config set ui.theme light")
	}

	path, err := targetPath(args)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if fileExists(path) {
		if cfg, err = config.ReadFile(path); err != nil {
			return err
		}
	}

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTo(cfg, path); err != nil {
		return NewCommandError("config", "save", err)
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{
			"key":   args.ConfigKey,
			"value": args.ConfigVal,
			"path":  path,
		}).PrintTo(env.Out)
	}
	env.printf(args.Quiet, "%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, args.ConfigVal)
	return nil
}

// maskSecret hides all but the last four characters of a header value.
func maskSecret(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", 8) + value[len(value)-4:]
}

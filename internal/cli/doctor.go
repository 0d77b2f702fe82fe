// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Configuration and connectivity checks.
//
// Command: doctor
// Aliases: diag
//
// Examples:
//   freqdash doctor
//   freqdash doctor --json
//   freqdash --url http://trainer:8000 doctor

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/freqdash/internal/api"
	"github.com/jeranaias/freqdash/internal/config"
)

// doctorTimeout bounds the connectivity check.
const doctorTimeout = 5 * time.Second

var fixStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("245")).
	Italic(true).
	PaddingLeft(2)

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	CheckPass CheckStatus = iota
	CheckWarn
	CheckFail
)

// String returns the JSON name of the status.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarn:
		return "warn"
	case CheckFail:
		return "fail"
	default:
		return "unknown"
	}
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // Suggested fix command or instruction
}

// Render returns a formatted string representation of the health check.
func (c *HealthCheck) Render() string {
	result := fmt.Sprintf("%s %s", RenderStatus(c.Status.String()), c.Message)
	if c.Status != CheckPass && c.Fix != "" {
		result += "\n" + fixStyle.Render("-> "+c.Fix)
	}
	return result
}

// =============================================================================
// HANDLE DOCTOR
// =============================================================================

// runDoctor loads its own configuration so a broken config file is
// reported as a failed check rather than stopping the command.
func runDoctor(ctx context.Context, env *Env, args Args) error {
	checks := runAllChecks(ctx, env, args)

	var summary DoctorSummary
	for _, check := range checks {
		switch check.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarn:
			summary.Warned++
		case CheckFail:
			summary.Failed++
		}
	}
	summary.Healthy = summary.Failed == 0

	var failure error
	if summary.Failed > 0 {
		failure = fmt.Errorf("%d health check(s) failed", summary.Failed)
	}

	if args.JSON {
		return doctorJSON(env, checks, summary, failure)
	}

	fmt.Fprintln(env.Out)
	fmt.Fprintln(env.Out, TitleStyle.Render("freqdash doctor"))
	fmt.Fprintln(env.Out, RenderSeparator(41))
	fmt.Fprintln(env.Out)
	for _, check := range checks {
		fmt.Fprintln(env.Out, check.Render())
	}
	fmt.Fprintln(env.Out)
	fmt.Fprintln(env.Out, RenderSeparator(41))

	parts := []string{fmt.Sprintf("%d passed", summary.Passed)}
	if summary.Warned > 0 {
		parts = append(parts, WarningStyle.Render(fmt.Sprintf("%d warning", summary.Warned)))
	}
	if summary.Failed > 0 {
		parts = append(parts, ErrorStyle.Render(fmt.Sprintf("%d failed", summary.Failed)))
	}
	fmt.Fprintln(env.Out, DimStyle.Render(strings.Join(parts, ", ")))
	fmt.Fprintln(env.Out)

	return failure
}

// doctorJSON prints the report. With failures the envelope is marked
// unsuccessful but still carries every check.
func doctorJSON(env *Env, checks []*HealthCheck, summary DoctorSummary, failure error) error {
	data := DoctorData{Checks: make([]DoctorCheck, 0, len(checks)), Summary: summary}
	for _, check := range checks {
		data.Checks = append(data.Checks, DoctorCheck{
			Name:    check.Name,
			Status:  check.Status.String(),
			Message: check.Message,
			Fix:     check.Fix,
		})
	}

	resp := NewJSONResponse("doctor", data)
	if failure != nil {
		msg := failure.Error()
		resp.Success = false
		resp.Error = &msg
	}
	if err := resp.PrintTo(env.Out); err != nil {
		return err
	}
	return failure
}

// =============================================================================
// HEALTH CHECK FUNCTIONS
// =============================================================================

func runAllChecks(ctx context.Context, env *Env, args Args) []*HealthCheck {
	cfg, path, err := LoadConfig(args)
	checks := []*HealthCheck{checkConfigValid(path, err)}
	if err != nil {
		return checks
	}

	client := env.Client
	if client == nil {
		client = cfg.NewClient()
	}

	checks = append(checks,
		checkBaseURL(cfg),
		checkBackendReachable(ctx, client),
		checkLogFileWritable(cfg),
		checkTerminal(env),
	)
	return checks
}

func checkConfigValid(path string, err error) *HealthCheck {
	check := &HealthCheck{Name: "Config Valid"}

	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Config invalid: %s", err)
		check.Fix = "Run: freqdash config reset"
		return check
	}

	check.Status = CheckPass
	if path == "" {
		check.Message = "Config valid (using defaults)"
	} else {
		check.Message = fmt.Sprintf("Config valid (%s)", path)
	}
	return check
}

func checkBaseURL(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{Name: "Base URL"}

	if cfg.API.BaseURL == "" {
		check.Status = CheckWarn
		check.Message = "No base URL; only absolute endpoints will work"
		check.Fix = "Run: freqdash config set api.base_url http://localhost:8000"
		return check
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Base URL %s", cfg.API.BaseURL)
	return check
}

// checkBackendReachable fetches the metrics series, the only read-only
// call the service offers.
func checkBackendReachable(ctx context.Context, client *api.Client) *HealthCheck {
	check := &HealthCheck{Name: "Backend Reachable"}

	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	samples, err := client.FetchMetrics(ctx)
	var httpErr *api.HTTPError
	switch {
	case err == nil:
		check.Status = CheckPass
		check.Message = fmt.Sprintf("Backend answered (%d metric samples)", len(samples))
	case errors.As(err, &httpErr):
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Backend answered with status %d", httpErr.Status)
		check.Fix = "Check endpoints.metrics matches the service"
	case errors.Is(err, api.ErrNotConfigured):
		check.Status = CheckFail
		check.Message = "Metrics endpoint is relative but no base URL is set"
		check.Fix = "Run: freqdash config set api.base_url http://localhost:8000"
	default:
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Backend not reachable: %s", api.ErrorString(err))
		check.Fix = "Start the service or pass --url"
	}
	return check
}

func checkLogFileWritable(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{Name: "Log File"}

	if cfg.Logging.File == "" {
		check.Status = CheckWarn
		check.Message = "No log file; dashboard logs are discarded"
		check.Fix = "Run: freqdash config set logging.file ~/.freqdash/freqdash.log"
		return check
	}

	dir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Could not create log directory: %s", err)
		return check
	}
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Log file not writable: %s", err)
		check.Fix = fmt.Sprintf("Check permissions on %s", dir)
		return check
	}
	f.Close()

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Log file %s", cfg.Logging.File)
	return check
}

func checkTerminal(env *Env) *HealthCheck {
	check := &HealthCheck{Name: "Terminal"}

	if !env.Interactive {
		check.Status = CheckWarn
		check.Message = "stdin is not a terminal; the dashboard needs one"
		return check
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Terminal %d columns, %s", GetTerminalWidth(), colorProfileName(GetColorProfile()))
	return check
}

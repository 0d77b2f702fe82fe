// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// Default endpoint paths, relative to the base URL.
const (
	DefaultMessagePath       = "/api/v1/claude/message"
	DefaultClearHistoryPath  = "/api/v1/claude/clear-history"
	DefaultStartTrainingPath = "/api/v1/claude/start-training"
	DefaultMetricsPath       = "/api/metrics"
)

// Endpoints holds every path the dashboard calls. A value may be relative
// (resolved against the client's base URL) or absolute.
type Endpoints struct {
	Message       string
	ClearHistory  string
	StartTraining string
	Metrics       string
}

// DefaultEndpoints returns the standard endpoint paths.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Message:       DefaultMessagePath,
		ClearHistory:  DefaultClearHistoryPath,
		StartTraining: DefaultStartTrainingPath,
		Metrics:       DefaultMetricsPath,
	}
}

// withDefaults fills empty fields from DefaultEndpoints.
func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.Message == "" {
		e.Message = d.Message
	}
	if e.ClearHistory == "" {
		e.ClearHistory = d.ClearHistory
	}
	if e.StartTraining == "" {
		e.StartTraining = d.StartTraining
	}
	if e.Metrics == "" {
		e.Metrics = d.Metrics
	}
	return e
}

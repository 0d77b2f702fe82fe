// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the remote dashboard service.
//
// Every request goes through Client.Call, which tracks a shared loading flag
// and a last-error string. The panels and the CLI observe that state through
// Client.State or Client.Subscribe.
//
// # Endpoints
//
//   - POST {Message}        {content}      -> {response}
//   - POST {ClearHistory}                  -> ignored
//   - POST {StartTraining}  {description}  -> {status}
//   - GET  {Metrics}                       -> [{name, accuracy, loss}]
//
// # Errors
//
// Non-2xx responses are returned as *HTTPError. Transport and decode failures
// are wrapped with %w. The client records every failure in its State and
// then returns it; it never retries and never swallows an error.
//
// # Usage
//
//	client := api.NewClient("http://localhost:8000").
//	    WithTimeout(30 * time.Second)
//	reply, err := client.SendMessage(ctx, "Hello")
package api

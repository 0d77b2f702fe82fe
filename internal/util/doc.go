// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across freqdash.
//
// # Key Functions
//
// Text:
//   - SanitizeInput: NFC normalization and control-character stripping for
//     text typed into the chat and training panels
//   - TruncateWidth, PadRight: display-width aware layout helpers used by
//     the metrics chart and tables
//
// Files:
//   - AtomicWriteFile: crash-safe writes used when saving the config file
//
// # Usage
//
//	content := util.SanitizeInput(input.Value())
//	label := util.TruncateWidth(sample.Name, 8)
package util

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnChange(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[ui]\ntheme = \"dark\"\n")

	changes := make(chan *Config, 4)
	w, err := Watch(path, 50*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			changes <- cfg
		}
	})
	require.NoError(t, err)
	defer w.Close()

	// Save through the atomic path to check rename-over is picked up.
	cfg := Default()
	cfg.UI.Theme = "light"
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case got := <-changes:
		assert.Equal(t, "light", got.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "")

	called := make(chan struct{}, 1)
	w, err := Watch(path, 20*time.Millisecond, func(*Config, error) {
		select {
		case called <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "other.txt"), "x")
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, w.Close())

	select {
	case <-called:
		t.Fatal("unrelated file triggered a reload")
	default:
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello", "Hello"},
		{"keeps newline and tab", "a\nb\tc", "a\nb\tc"},
		{"drops escape", "a\x1b[31mb", "a[31mb"},
		{"drops NUL and bell", "x\x00y\x07z", "xyz"},
		// e + combining acute composes to a single rune
		{"nfc", "e\u0301", "\u00e9"},
		{"keeps outer spaces", "  hi  ", "  hi  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.in))
		})
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   \n\t "))
	assert.False(t, IsBlank(" x "))
}

func TestTruncateWidth(t *testing.T) {
	assert.Equal(t, "epoch1", TruncateWidth("epoch1", 10))
	assert.Equal(t, "epo…", TruncateWidth("epoch1", 4))
	assert.Equal(t, "", TruncateWidth("epoch1", 0))
	// Each CJK rune is two columns wide.
	assert.LessOrEqual(t, StringWidth(TruncateWidth("日本語テキスト", 5)), 5)
}

func TestPadding(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "   ab", PadLeft("ab", 5))
	assert.Equal(t, 4, StringWidth(PadRight("abcdefgh", 4)))
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0o600))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

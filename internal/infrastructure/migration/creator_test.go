package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add webhook deliveries", "add_webhook_deliveries"},
		{"Add-Stock-Leases", "add_stock_leases"},
		{"ADD_SYNC_RUNS", "add_sync_runs"},
		{"add__sync__runs", "add_sync_runs"},
		{"Add Index 2", "add_index_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add webhook deliveries", "Outbound delivery log")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_webhook_deliveries.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_webhook_deliveries.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Migration: add_webhook_deliveries")
	assert.Contains(t, string(up), "Outbound delivery log")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback: add_webhook_deliveries")

	second, err := CreateMigration(dir, "Add Lease Index", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
}

func TestCreateMigration_EmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestCreateMigration_ContinuesExistingNumbering(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_core.up.sql"), nil, 0o644))

	mf, err := CreateMigration(dir, "next", "")
	require.NoError(t, err)
	assert.Equal(t, uint(8), mf.Version)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_webhooks.up.sql",
		"000002_webhooks.down.sql",
		"000001_core.up.sql",
		"000003_no_down.up.sql",
		"README.md",
		"notes.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000004_dir.up.sql"), 0o755))

	entries, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Version: 1, Name: "core"}, entries[0])
	assert.Equal(t, Entry{Version: 2, Name: "webhooks", HasDown: true}, entries[1])
	assert.Equal(t, "000003_no_down", entries[2].BaseName())
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	entries, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListMigrations_CheckedInFiles(t *testing.T) {
	entries, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.True(t, e.HasDown, "migration %s has no down file", e.BaseName())
	}
}

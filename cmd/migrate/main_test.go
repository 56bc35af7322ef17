package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigrations(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	return dir
}

func TestCollectMigrations_UpOrder(t *testing.T) {
	dir := writeMigrations(t,
		"002_add_indexes.up.sql",
		"001_create_schema.up.sql",
		"001_create_schema.down.sql",
		"002_add_indexes.down.sql",
	)

	files, err := collectMigrations(dir, "up")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "001_create_schema.up.sql", filepath.Base(files[0]))
	assert.Equal(t, "002_add_indexes.up.sql", filepath.Base(files[1]))
}

func TestCollectMigrations_DownReversed(t *testing.T) {
	dir := writeMigrations(t,
		"001_create_schema.down.sql",
		"002_add_indexes.down.sql",
	)

	files, err := collectMigrations(dir, "down")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "002_add_indexes.down.sql", filepath.Base(files[0]))
	assert.Equal(t, "001_create_schema.down.sql", filepath.Base(files[1]))
}

func TestCollectMigrations_RejectsMisnamedFile(t *testing.T) {
	dir := writeMigrations(t, "schema.sql")

	_, err := collectMigrations(dir, "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema.sql")
}

func TestCollectMigrations_IgnoresNonSQL(t *testing.T) {
	dir := writeMigrations(t, "001_create_schema.up.sql")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644))

	files, err := collectMigrations(dir, "up")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestTodoctl_MigrateSeedStats(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
	dsn := "file:" + filepath.Join(dir, "ctl.db") + "?_pragma=foreign_keys(1)&_time_format=sqlite"

	assert.Contains(t, run(t, "migrate", "--dsn", dsn), "schema is up to date")
	assert.Contains(t, run(t, "seed", "--dsn", dsn), "demo@example.com")
	assert.Contains(t, run(t, "seed", "--dsn", dsn), "nothing to do")

	stats := run(t, "stats", "--dsn", dsn)
	assert.Contains(t, stats, "users:       1")
	assert.Contains(t, stats, "lists:       2")
	assert.Contains(t, stats, "items:       4 (deleted 0)")
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "lectio.db"))
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PLANS_FILE", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlansCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "bible-1y")
	assert.Contains(t, out, "0/1189")
	assert.Equal(t, 9, strings.Count(out, "\n"), "header plus eight plans")
}

func TestPlanCommand(t *testing.T) {
	setupEnv(t)

	t.Run("Success: single day", func(t *testing.T) {
		out, err := run(t, "plan", "proverbs-31d", "--day", "3")
		require.NoError(t, err)
		assert.Contains(t, out, "Dia 3")
		assert.Contains(t, out, "[ ] Provérbios 3")
		assert.NotContains(t, out, "Dia 4")
	})

	t.Run("Fail: unknown plan and bad day", func(t *testing.T) {
		_, err := run(t, "plan", "missing")
		assert.Error(t, err)

		_, err = run(t, "plan", "proverbs-31d", "--day", "32")
		assert.Error(t, err)
	})
}

func TestExportCommand(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "backup.json")

	_, err := run(t, "export", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"app": "Lectio"`)

	out, err := run(t, "export", "--out", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"plansProgress"`)
}

func TestCacheAndResetCommands(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 cached chapters")

	_, err = run(t, "reset")
	assert.Error(t, err, "reset needs confirmation")

	out, err = run(t, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress reset")
}

func TestFlagsDoNotLeakBetweenCommands(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "reset", "--yes")
	require.NoError(t, err)

	_, err = run(t, "reset")
	assert.Error(t, err, "confirmation must not carry over to a new command")

	out, err := run(t, "plan", "proverbs-31d", "--day", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "Dia 3")

	out, err = run(t, "plan", "proverbs-31d")
	require.NoError(t, err)
	assert.Contains(t, out, "Dia 31", "day filter must not carry over")
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	// Keep the user's config and environment out of the test.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, name := range []string{"MULTISPLICE_LOG_LEVEL", "MULTISPLICE_UNITS", "MULTISPLICE_DIFF_CONTEXT", "MULTISPLICE_DIFF_COLOR", "MULTISPLICE_WATCH_DEBOUNCE"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.txt", "a b c d e")
	sc := writeFile(t, dir, "edit.yaml", "edits:\n  - {start: 2, end: 3, text: beep}\n  - {start: 6, end: 7, text: boop}\n")

	code, stdout, stderr := runCLI(t, "apply", src, sc)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "a beep c boop e", stdout)
}

func TestApplyCommandUnitsFlag(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.txt", "héllo")
	sc := writeFile(t, dir, "edit.lua", `splice(1, 2, "e")`)

	code, stdout, stderr := runCLI(t, "apply", "--units", "runes", src, sc)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "hello", stdout)
}

func TestApplyCommandOverlapFails(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.txt", "abcdef")
	sc := writeFile(t, dir, "edit.json", `{"edits": [{"start": 1, "end": 4, "text": "Z"}, {"start": 3, "end": 5, "text": "Q"}]}`)

	code, stdout, stderr := runCLI(t, "apply", src, sc)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "edits overlap")
}

func TestApplyCommandBadArgs(t *testing.T) {
	code, _, stderr := runCLI(t, "apply", "only-one")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error:")

	code, _, _ = runCLI(t, "apply", "--units", "words", "a", "b")
	assert.Equal(t, 1, code)
}

func TestApplyCommandBadLogLevel(t *testing.T) {
	code, _, _ := runCLI(t, "--log-level", "loud", "version")
	assert.Equal(t, 0, code, "version does not load config")

	dir := t.TempDir()
	src := writeFile(t, dir, "src.txt", "abc")
	sc := writeFile(t, dir, "edit.yaml", "edits: []\n")
	code, _, stderr := runCLI(t, "--log-level", "loud", "apply", src, sc)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown log level")
}

func TestDeriveCommand(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "hello world")
	newPath := writeFile(t, dir, "new.txt", "goodbye world")

	code, stdout, stderr := runCLI(t, "derive", "--format", "json", oldPath, newPath)
	require.Equal(t, 0, code, stderr)

	sc := writeFile(t, dir, "derived.json", stdout)
	code, stdout, stderr = runCLI(t, "apply", oldPath, sc)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "goodbye world", stdout)
}

func TestDeriveCommandBadFormat(t *testing.T) {
	code, _, stderr := runCLI(t, "derive", "--format", "xml", "a", "b")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown script format")
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml", "[render]\nunits = \"runes\"\n")
	src := writeFile(t, dir, "src.txt", "héllo")
	sc := writeFile(t, dir, "edit.toml", "[[edits]]\nstart = 1\nend = 2\ntext = \"e\"\n")

	code, stdout, stderr := runCLI(t, "--config", cfgPath, "apply", src, sc)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "hello", stdout)

	code, _, stderr = runCLI(t, "--config", filepath.Join(dir, "missing.toml"), "apply", src, sc)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "config file not found")
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "multisplice dev")
	assert.Contains(t, stdout, "Commit: unknown")
}

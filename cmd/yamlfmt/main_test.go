package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	charmlog "charm.land/log/v2"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *charmlog.Logger {
	t.Helper()
	return charmlog.New(io.Discard)
}

func TestFormatOneRewritesUnformattedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a:   1\nb: 2\n"), 0o644))

	logger := newTestLogger(t)
	require.NoError(t, formatOne(logger, path, false))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "a: 1\nb: 2\n", string(got))
}

func TestFormatOneCheckModeDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	src := "a:   1\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	err := formatOne(newTestLogger(t), path, true)
	require.Error(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, src, string(got))
}

func TestFormatOneCheckModePassesOnFormattedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o644))

	require.NoError(t, formatOne(newTestLogger(t), path, true))
}

func TestFormatOneRejectsMalformedInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: [1, 2\n"), 0o644))

	err := formatOne(newTestLogger(t), path, false)
	require.Error(t, err)
}

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("hidden")
	logger.Info("exported", "path", "chart.png")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "flowedit")
	assert.Contains(t, out, "exported")
	assert.Contains(t, out, "path=chart.png")
}

func TestOpenLogOutput(t *testing.T) {
	w, closeFn, err := openLogOutput("")
	require.NoError(t, err)
	assert.Equal(t, io.Discard, w)
	assert.NoError(t, closeFn())

	path := filepath.Join(t.TempDir(), "flowedit.log")
	w, closeFn, err = openLogOutput(path)
	require.NoError(t, err)
	newLogger(w, log.DebugLevel).Debug("connection mode", "source", "node-1")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "source=node-1")

	_, _, err = openLogOutput(filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}

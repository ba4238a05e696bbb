package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLogLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLogLevel("warning"))
	assert.Equal(t, ERROR, ParseLogLevel("error"))
	assert.Equal(t, INFO, ParseLogLevel("bogus"))
}

func TestNewWithOptionsRejectsBadOutput(t *testing.T) {
	_, err := NewWithOptions(Options{Output: "syslog"})
	assert.Error(t, err)

	_, err = NewWithOptions(Options{Output: "file"})
	assert.Error(t, err)
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewWithOptions(Options{Level: "info", Output: "file", File: path})
	require.NoError(t, err)

	l.Debug("hidden %d", 1)
	l.Info("project %q created", "solar")
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `project \"solar\" created`)
	assert.NotContains(t, string(data), "hidden")
}

func TestSetLevel(t *testing.T) {
	l := New(INFO)
	assert.False(t, l.Enabled(DEBUG))
	l.SetLevel(DEBUG)
	assert.True(t, l.Enabled(DEBUG))

	named := l.Named("task")
	named.SetLevel(ERROR)
	assert.False(t, l.Enabled(WARN))
}

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesConsoleAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.log")
	var console bytes.Buffer

	log, closeFn := New(Config{Level: "INFO", File: path, MaxSizeMB: 1, MaxBackups: 1, Out: &console})
	log.Debug().Msg("hidden")
	log.Info().Str("ticker", "AAPL").Msg("priced")
	require.NoError(t, closeFn())

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "priced")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "priced", entry["message"])
	assert.Equal(t, "AAPL", entry["ticker"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_BadFileFallsBackToConsole(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing", "dir", "x.log")

	log, closeFn := New(Config{Level: "debug", File: path, Out: &console})
	log.Debug().Msg("still here")
	require.NoError(t, closeFn())

	assert.Contains(t, console.String(), "Failed to open log file")
	assert.Contains(t, console.String(), "still here")
}

func TestRotator_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	r := &Rotator{Filename: path, MaxSize: 10, MaxBackups: 2}
	defer r.Close()

	for _, line := range []string{"first----\n", "second---\n", "third----\n", "fourth---\n"} {
		_, err := r.Write([]byte(line))
		require.NoError(t, err)
	}

	read := func(p string) string {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		return string(b)
	}
	assert.Equal(t, "fourth---\n", read(path))
	assert.Equal(t, "third----\n", read(path+".1"))
	assert.Equal(t, "second---\n", read(path+".2"))
	_, err := os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err), "only MaxBackups files are kept")
}

func TestRotator_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0644))

	r := &Rotator{Filename: path, MaxSize: 1024, MaxBackups: 1}
	_, err := r.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(b))
	assert.False(t, strings.Contains(string(b), "\x00"))
}

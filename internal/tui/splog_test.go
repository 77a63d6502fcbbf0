package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplogQuiet(t *testing.T) {
	splog := NewSplog()
	require.False(t, splog.IsQuiet())

	splog.SetQuiet(true)
	require.True(t, splog.IsQuiet())

	splog.SetQuiet(false)
	require.False(t, splog.IsQuiet())
}

func TestSplogWithLogFile(t *testing.T) {
	t.Run("writes messages to the log file", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "logs", "mergeit.log")

		splog, err := NewSplogWithLogFile(logPath)
		require.NoError(t, err)

		// Quiet only silences the console; the file handler keeps logging.
		splog.SetQuiet(true)
		splog.Info("resolved %d conflicts", 3)
		splog.Debug("debug detail")
		require.NoError(t, splog.Close())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		require.Contains(t, string(data), "resolved 3 conflicts")
		require.Contains(t, string(data), "debug detail")
	})

	t.Run("creates the log directory", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "a", "b", "mergeit.log")

		splog, err := NewSplogWithLogFile(logPath)
		require.NoError(t, err)
		defer func() { _ = splog.Close() }()

		_, statErr := os.Stat(filepath.Dir(logPath))
		require.NoError(t, statErr)
	})

	t.Run("close without a log file is a no-op", func(t *testing.T) {
		require.NoError(t, NewSplog().Close())
	})
}

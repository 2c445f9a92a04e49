package obslog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesAllThreeLogFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	loggers, err := Open(dir)
	require.NoError(t, err)
	defer loggers.Close() //nolint:errcheck

	loggers.Server.Info("server started")
	loggers.Boot.Info("booting")
	loggers.Fatal.Error("uh oh")

	for _, name := range []string{"server.log", "boot.log", "fatal.log"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestOpen_CreatesMissingDir(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	loggers, err := Open(dir)
	require.NoError(t, err)
	defer loggers.Close() //nolint:errcheck

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestClose_ReleasesFileHandles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	loggers, err := Open(dir)
	require.NoError(t, err)
	assert.NoError(t, loggers.Close())
}

func TestDiscard_NeverPanics(t *testing.T) {
	t.Parallel()
	loggers := Discard()
	assert.NotPanics(t, func() {
		loggers.Server.Info("discarded")
		loggers.Boot.Warn("discarded")
		loggers.Fatal.Error("discarded")
	})
}

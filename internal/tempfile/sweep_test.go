package tempfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSweepStaleRemovesOnlyOldFiles(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "old_token.pdf")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	fresh := filepath.Join(dir, "new_token.pdf")
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0644))

	cleaned, err := SweepStale(dir, time.Hour, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, cleaned)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestSweepStaleSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(sub, past, past))

	cleaned, err := SweepStale(dir, time.Hour, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, cleaned)

	_, err = os.Stat(sub)
	assert.NoError(t, err)
}

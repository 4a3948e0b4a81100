package tempfile

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// SweepStale removes staged copies older than the retention window.
// It is a periodic backstop for copies whose deferred deletion never
// ran, e.g. after a crash or exhausted retries.
func SweepStale(dir string, retention time.Duration, logger *logrus.Logger) (int, error) {
	pattern := filepath.Join(dir, "*")
	files, err := filepath.Glob(pattern)
	if err != nil {
		logger.Errorf("staging sweep error: %v", err)
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	cleaned := 0

	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(f); err != nil {
				logger.Warnf("failed to remove staged file %s: %v", f, err)
			} else {
				cleaned++
			}
		}
	}

	if cleaned > 0 {
		logger.Infof("cleaned up %d stale staged files", cleaned)
	}
	return cleaned, nil
}

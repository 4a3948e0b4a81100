package tempfile

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"fileapi/internal/spawn"
)

const (
	DefaultRetention  = 60 * time.Second
	maxCleanupTries   = 5
	cleanupRetryDelay = 2 * time.Second
)

var ErrNotAFile = errors.New("not a regular file")

// Descriptor is the payload returned to the client after a file has
// been staged for download.
type Descriptor struct {
	Success             bool   `json:"success"`
	URL                 string `json:"url"`
	AttachmentName      string `json:"attachment_name"`
	AvailableForSeconds int    `json:"available_for_seconds"`
}

// CleanupFunc schedules the deferred deletion of a staged copy. The
// caller invokes it once the response has been sent, so the retention
// clock starts when the client could begin downloading.
type CleanupFunc func() *spawn.Handle

// Publisher copies files into a publicly served staging directory
// under collision-resistant names and arranges their removal after a
// retention window.
type Publisher struct {
	StagingDir string
	PublicBase string

	// Retention and RetryDelay are variable for tests; production
	// wiring keeps the defaults.
	Retention  time.Duration
	RetryDelay time.Duration

	spawner *spawn.Spawner
}

func NewPublisher(stagingDir, publicBase string, sp *spawn.Spawner) *Publisher {
	return &Publisher{
		StagingDir: stagingDir,
		PublicBase: publicBase,
		Retention:  DefaultRetention,
		RetryDelay: cleanupRetryDelay,
		spawner:    sp,
	}
}

// Publish copies srcPath into the staging directory under a unique
// name and returns the download descriptor together with the cleanup
// to run after the response is sent. srcPath must be an existing
// regular file; otherwise ErrNotAFile is returned before anything is
// written. Copy and mkdir failures surface to the caller unretried.
func (p *Publisher) Publish(srcPath, attachmentName string) (*Descriptor, CleanupFunc, error) {
	info, err := os.Stat(srcPath)
	if err != nil || !info.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotAFile, srcPath)
	}

	if err := os.MkdirAll(p.StagingDir, 0755); err != nil {
		return nil, nil, err
	}

	if attachmentName == "" {
		attachmentName = filepath.Base(srcPath)
	}

	staged := uniqueName(attachmentName)
	dst := filepath.Join(p.StagingDir, staged)

	if err := copyFile(srcPath, dst); err != nil {
		return nil, nil, fmt.Errorf("failed to stage %s: %w", srcPath, err)
	}

	desc := &Descriptor{
		Success:             true,
		URL:                 path.Join(p.PublicBase, staged),
		AttachmentName:      attachmentName,
		AvailableForSeconds: int(p.Retention / time.Second),
	}

	cleanup := func() *spawn.Handle {
		return p.spawner.Go("cleanup "+staged, func() {
			p.removeStaged(dst)
		})
	}
	return desc, cleanup, nil
}

// removeStaged waits out the retention window and then deletes the
// staged copy, retrying on failure. Exhausting the retries leaks the
// file silently; that is the accepted trade-off.
func (p *Publisher) removeStaged(dst string) {
	if _, err := os.Stat(dst); err != nil {
		return
	}
	time.Sleep(p.Retention)
	for attempt := 1; attempt <= maxCleanupTries; attempt++ {
		err := os.Remove(dst)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return
		}
		if attempt < maxCleanupTries {
			time.Sleep(p.RetryDelay)
		}
	}
}

// uniqueName inserts a random token before the final extension so
// concurrent requests for the same source never collide.
func uniqueName(name string) string {
	u := uuid.New()
	token := hex.EncodeToString(u[:])
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + token + ext
}

// copyFile copies content plus permissions. The copy keeps a fresh
// mod time on purpose: SweepStale ages staged files by mod time, so
// inheriting the source's would let it delete a copy mid-retention.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

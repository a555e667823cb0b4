package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"extract-mp3/domain/video"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const lockRetryDelay = 100 * time.Millisecond

// Locker implements video.OutputLocker with an advisory lock file per output path.
// Lock files live in dir and are never removed, since unlinking a flock file
// lets a later writer lock a fresh inode while an earlier one still holds the old.
type Locker struct {
	dir string
}

// NewLocker creates a Locker that keeps its lock files in the OS temp directory
func NewLocker() *Locker {
	return &Locker{dir: os.TempDir()}
}

// NewLockerInDir creates a Locker that keeps its lock files in dir
func NewLockerInDir(dir string) *Locker {
	return &Locker{dir: dir}
}

// LockPath returns the lock file guarding outputPath. Equivalent spellings of
// the same output map to the same lock.
func (l *Locker) LockPath(outputPath string) string {
	abs, err := filepath.Abs(outputPath)
	if err != nil {
		abs = filepath.Clean(outputPath)
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs))
	return filepath.Join(l.dir, "extract-mp3-"+id.String()+".lock")
}

// Lock implements video.OutputLocker
func (l *Locker) Lock(ctx context.Context, outputPath string) (func() error, error) {
	fl := flock.New(l.LockPath(outputPath))

	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		fl.Close()
		return nil, fmt.Errorf("lock output %s: %w", outputPath, err)
	}
	if !locked {
		fl.Close()
		return nil, fmt.Errorf("lock output %s: %w", outputPath, ctx.Err())
	}

	return func() error {
		if err := fl.Unlock(); err != nil {
			return fmt.Errorf("unlock output %s: %w", outputPath, err)
		}
		return nil
	}, nil
}

// Ensure Locker implements video.OutputLocker
var _ video.OutputLocker = (*Locker)(nil)

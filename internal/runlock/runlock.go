package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"sortbox/internal/fileutil"
	"sortbox/internal/services"
)

// Lock is a held run lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// PathFor returns the lock file used for root.
func PathFor(stateDir, root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(stateDir, "locks", hex.EncodeToString(sum[:])[:16]+".lock")
}

// Acquire takes the lock for root without blocking. A lock held by another
// process yields services.ErrConflict.
func Acquire(stateDir, root string) (*Lock, error) {
	path := PathFor(stateDir, root)
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "runlock", "acquire", "create lock directory", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConflict, "runlock", "acquire",
			fmt.Sprintf("another organize run holds %s", root), nil)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. The lock file is left for reuse.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

package cmd

import (
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/tubegrab/tubegrab/internal/config"
)

var instanceLock *flock.Flock

// AcquireLock takes the single-instance lock. It returns false when another
// tubegrab process already holds it.
func AcquireLock() (bool, error) {
	lockPath := filepath.Join(config.GetAppDir(), "tubegrab.lock")
	instanceLock = flock.New(lockPath)
	return instanceLock.TryLock()
}

// ReleaseLock releases the single-instance lock.
func ReleaseLock() error {
	if instanceLock == nil {
		return nil
	}
	return instanceLock.Unlock()
}

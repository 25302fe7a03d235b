package organizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CollisionPolicy decides what happens when a file would land on an existing
// file of the same name.
type CollisionPolicy string

const (
	// CollisionRename picks the first free "<stem>(<n>)<ext>" name. The counter
	// form keeps the renamed file recognizable as a duplicate on later runs.
	CollisionRename CollisionPolicy = "rename"
	// CollisionSkip leaves the incoming file where it is and records a conflict.
	CollisionSkip CollisionPolicy = "skip"
	// CollisionOverwrite replaces the existing file.
	CollisionOverwrite CollisionPolicy = "overwrite"
)

// ParseCollisionPolicy validates a configured policy. Empty selects rename.
func ParseCollisionPolicy(value string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", CollisionRename:
		return CollisionRename, nil
	case CollisionSkip:
		return CollisionSkip, nil
	case CollisionOverwrite:
		return CollisionOverwrite, nil
	default:
		return "", fmt.Errorf("unsupported collision policy %q", value)
	}
}

var errTargetExists = errors.New("target already exists")

// resolveTarget returns the path a file named name should be moved to inside
// dir. ok is false when the policy says to leave the file alone.
func resolveTarget(dir, name string, policy CollisionPolicy) (target string, ok bool, err error) {
	target = filepath.Join(dir, name)
	exists, err := pathExists(target)
	if err != nil || !exists {
		return target, err == nil, err
	}
	switch policy {
	case CollisionOverwrite:
		return target, true, nil
	case CollisionSkip:
		return target, false, nil
	default:
		next, err := nextFreePath(dir, name)
		if err != nil {
			return "", false, err
		}
		return next, true, nil
	}
}

func nextFreePath(dir, name string) (string, error) {
	const maxAttempts = 10000
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// Dotfiles such as ".env" have no stem of their own.
		stem, ext = name, ""
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s(%d)%s", stem, attempt, ext))
		exists, err := pathExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("exhausted rename slots for %s in %s", name, dir)
}

func pathExists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

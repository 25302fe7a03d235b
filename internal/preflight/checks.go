package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"

	"sortbox/internal/services"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRoot validates the directory about to be organized. It must exist and
// be a directory; failures carry services.ErrValidation so callers abort
// before touching the tree.
func CheckRoot(path string) error {
	if path == "" {
		return services.Wrap(services.ErrValidation, "preflight", "check root", "root directory is required", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrValidation, "preflight", "check root", fmt.Sprintf("%s does not exist", path), err)
		}
		return services.Wrap(services.ErrValidation, "preflight", "check root", fmt.Sprintf("stat %s", path), err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrValidation, "preflight", "check root", fmt.Sprintf("%s is not a directory", path), nil)
	}
	return nil
}

package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// DirPerm is the mode used for directories created while organizing.
const DirPerm fs.FileMode = 0o755

// MoveTempPrefix names the temporary files written by cross-device moves.
const MoveTempPrefix = ".sortbox-move-"

// IsMoveTemp reports whether name is a temporary file left by MoveFile.
func IsMoveTemp(name string) bool {
	return strings.HasPrefix(name, MoveTempPrefix)
}

// EnsureDir creates path and any missing parents. An existing directory is
// not an error.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirPerm)
}

// MoveFile relocates src to dst, replacing dst if it exists. Renames that
// cross filesystems fall back to a verified copy followed by removal of src.
// On failure src is left in place and no partial dst is kept.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, unix.EXDEV) {
		return err
	}
	return moveAcrossDevices(src, dst)
}

func moveAcrossDevices(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), MoveTempPrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	cleanup := func() { _ = os.Remove(tmpPath) }
	if err := CopyFileVerified(src, tmpPath); err != nil {
		cleanup()
		return fmt.Errorf("copy across devices: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		cleanup()
		return fmt.Errorf("preserve mode: %w", err)
	}
	// Date buckets are derived from mtime, so the copy must keep it.
	if err := os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		cleanup()
		return fmt.Errorf("preserve times: %w", err)
	}
	backup, err := setAside(dst)
	if err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		cleanup()
		restore(backup, dst)
		return fmt.Errorf("place copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		restore(backup, dst)
		return fmt.Errorf("remove source after copy: %w", err)
	}
	if backup != "" {
		_ = os.Remove(backup)
	}
	return nil
}

// setAside renames an existing dst to a move temp next to it so a failed
// overwrite can put it back. It returns "" when dst does not exist.
func setAside(dst string) (string, error) {
	if _, err := os.Lstat(dst); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("stat destination: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(dst), MoveTempPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("create backup name: %w", err)
	}
	backup := f.Name()
	_ = f.Close()
	if err := os.Rename(dst, backup); err != nil {
		_ = os.Remove(backup)
		return "", fmt.Errorf("set aside destination: %w", err)
	}
	return backup, nil
}

func restore(backup, dst string) {
	if backup != "" {
		_ = os.Rename(backup, dst)
	}
}

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return errors.New("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

// RemoveEmptyDirs deletes every directory below root that has no entries,
// deepest first, so a parent emptied by removing its children is removed in
// the same pass. root itself is kept. It returns the removed paths.
func RemoveEmptyDirs(root string) ([]string, error) {
	var dirs []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable subtrees are left alone.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	var (
		removed []string
		errs    []error
	)
	// WalkDir visits parents before children; reverse order is deepest first.
	for i := len(dirs) - 1; i >= 0; i-- {
		dir := dirs[i]
		entries, err := os.ReadDir(dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, dir)
	}
	return removed, errors.Join(errs...)
}

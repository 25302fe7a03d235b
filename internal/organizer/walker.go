package organizer

import (
	"cmp"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"sortbox/internal/dupes"
	"sortbox/internal/fileutil"
)

// collect snapshots the regular files to organize before anything moves.
// Flat mode reads only root; recursive mode descends into every subdirectory.
// Unreadable entries are recorded on report and skipped. Temp files left by
// cross-device moves are returned separately and never organized.
func collect(root string, recursive bool, report *Report) (files, temps []string, err error) {
	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, nil, err
		}
		files = make([]string, 0, len(entries))
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			path := filepath.Join(root, entry.Name())
			if fileutil.IsMoveTemp(entry.Name()) {
				temps = append(temps, path)
				continue
			}
			files = append(files, path)
		}
		orderByDuplicateKey(files)
		return files, temps, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			report.fail(path, "walk", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		switch {
		case !d.Type().IsRegular():
		case fileutil.IsMoveTemp(d.Name()):
			temps = append(temps, path)
		default:
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	orderByDuplicateKey(files)
	return files, temps, nil
}

// orderByDuplicateKey groups files sharing a directory and duplicate key, and
// places the shortest name of each group first. "report.pdf" is therefore
// placed before "report(1).pdf" and keeps the category folder.
func orderByDuplicateKey(files []string) {
	slices.SortStableFunc(files, func(a, b string) int {
		if c := cmp.Compare(filepath.Dir(a), filepath.Dir(b)); c != 0 {
			return c
		}
		nameA, nameB := filepath.Base(a), filepath.Base(b)
		if c := cmp.Compare(dupes.Key(nameA), dupes.Key(nameB)); c != 0 {
			return c
		}
		if c := cmp.Compare(len(nameA), len(nameB)); c != 0 {
			return c
		}
		return cmp.Compare(nameA, nameB)
	})
}

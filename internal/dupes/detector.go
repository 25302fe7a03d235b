package dupes

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// counterPattern matches a parenthesized run of decimal digits in any script.
var counterPattern = regexp.MustCompile(`\(\p{Nd}+\)`)

// Key returns the normalized name used for duplicate comparison.
func Key(name string) string {
	return strings.TrimSpace(counterPattern.ReplaceAllString(name, ""))
}

// IsDuplicate reports whether name collides with any entry in existing.
func IsDuplicate(name string, existing []string) bool {
	key := Key(name)
	for _, entry := range existing {
		if Key(entry) == key {
			return true
		}
	}
	return false
}

// CheckDir reports whether name collides with an entry of dir. An entry named
// self is ignored so a file already inside dir is not its own duplicate; pass
// "" when the file lives elsewhere. A missing dir has no duplicates.
func CheckDir(dir, name, self string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if self != "" && entry.Name() == self {
			continue
		}
		names = append(names, entry.Name())
	}
	return IsDuplicate(name, names), nil
}

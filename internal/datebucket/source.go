package datebucket

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Source selects which timestamp a file is bucketed by.
type Source string

const (
	// SourceModTime uses the file's last-modified time.
	SourceModTime Source = "mtime"
	// SourceEXIF uses the EXIF capture time for JPEG images and falls back to
	// the modification time.
	SourceEXIF Source = "exif"
)

// ParseSource validates a configured date source.
func ParseSource(value string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(value))) {
	case "", SourceModTime:
		return SourceModTime, nil
	case SourceEXIF:
		return SourceEXIF, nil
	default:
		return "", fmt.Errorf("unsupported date source %q (want mtime or exif)", value)
	}
}

var exifExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
}

// Timestamp returns the time path should be bucketed by.
func (s Source) Timestamp(path string, info fs.FileInfo) time.Time {
	if s == SourceEXIF {
		if _, ok := exifExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			if taken, err := exifTime(path); err == nil && !taken.IsZero() {
				return taken
			}
		}
	}
	return info.ModTime()
}

func exifTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}

package datebucket

import (
	"fmt"
	"time"
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthLabel returns the folder label for m. Out of range months yield "".
func MonthLabel(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthLabels[m-1]
}

// Bucket is the dated folder triple for a single file.
type Bucket struct {
	Year  string
	Month string
	Week  string
}

// Segments returns the bucket as ordered path segments.
func (b Bucket) Segments() []string {
	return []string{b.Year, b.Month, b.Week}
}

// Compute derives the bucket for t as observed in loc. A nil loc means
// time.Local.
func Compute(t time.Time, loc *time.Location) Bucket {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return Bucket{
		Year:  fmt.Sprintf("%04d", t.Year()),
		Month: MonthLabel(t.Month()),
		Week:  WeekLabel(WeekOfYear(t)),
	}
}

// WeekOfYear returns the Sunday-based week number of t (0-53).
func WeekOfYear(t time.Time) int {
	yday := t.YearDay() - 1
	return (yday + 7 - int(t.Weekday())) / 7
}

// WeekLabel formats a week number as a folder name.
func WeekLabel(week int) string {
	return fmt.Sprintf("Week-%02d", week)
}

// LoadLocation resolves a timezone setting. Empty and "Local" select the
// process timezone.
func LoadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local", "local":
		return time.Local, nil
	case "UTC", "utc":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

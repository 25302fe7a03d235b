package datebucket_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sortbox/internal/datebucket"
)

func TestComputeMidMarch2024(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	got := datebucket.Compute(ts, time.UTC)
	want := datebucket.Bucket{Year: "2024", Month: "Mar", Week: "Week-10"}
	if got != want {
		t.Fatalf("Compute = %+v, want %+v", got, want)
	}
}

func TestWeekOfYearSundayStart(t *testing.T) {
	cases := []struct {
		date time.Time
		want int
	}{
		{time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, time.January, 13, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 52},
		{time.Date(2017, time.December, 31, 0, 0, 0, 0, time.UTC), 53},
	}
	for _, tc := range cases {
		if got := datebucket.WeekOfYear(tc.date); got != tc.want {
			t.Fatalf("%s: week = %d, want %d", tc.date.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestComputeUsesLocation(t *testing.T) {
	ts := time.Date(2024, time.January, 1, 2, 0, 0, 0, time.UTC)
	loc := time.FixedZone("minus5", -5*60*60)
	got := datebucket.Compute(ts, loc)
	if got.Year != "2023" || got.Month != "Dec" || got.Week != "Week-53" {
		t.Fatalf("unexpected bucket %+v", got)
	}
}

func TestMonthLabels(t *testing.T) {
	want := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	for m := time.January; m <= time.December; m++ {
		ts := time.Date(2022, m, 10, 0, 0, 0, 0, time.UTC)
		if got := datebucket.Compute(ts, time.UTC).Month; got != want[m-1] {
			t.Fatalf("month %d label = %q", m, got)
		}
		if got := datebucket.MonthLabel(m); got != want[m-1] {
			t.Fatalf("MonthLabel(%d) = %q", m, got)
		}
	}
	if got := datebucket.MonthLabel(13); got != "" {
		t.Fatalf("MonthLabel(13) = %q, want empty", got)
	}
}

func TestLoadLocation(t *testing.T) {
	if loc, err := datebucket.LoadLocation(""); err != nil || loc != time.Local {
		t.Fatalf("empty zone: %v %v", loc, err)
	}
	if loc, err := datebucket.LoadLocation("UTC"); err != nil || loc != time.UTC {
		t.Fatalf("UTC zone: %v %v", loc, err)
	}
	if _, err := datebucket.LoadLocation("Not/AZone"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

func TestParseSource(t *testing.T) {
	if s, err := datebucket.ParseSource(""); err != nil || s != datebucket.SourceModTime {
		t.Fatalf("default source: %v %v", s, err)
	}
	if s, err := datebucket.ParseSource("EXIF"); err != nil || s != datebucket.SourceEXIF {
		t.Fatalf("exif source: %v %v", s, err)
	}
	if _, err := datebucket.ParseSource("ctime"); err == nil {
		t.Fatal("expected error for unsupported source")
	}
}

func TestEXIFSourceFallsBackToModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-really.jpg")
	if err := os.WriteFile(path, []byte("plain bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2021, time.June, 3, 10, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	got := datebucket.SourceEXIF.Timestamp(path, info)
	if !got.Equal(mtime) {
		t.Fatalf("Timestamp = %v, want %v", got, mtime)
	}
}

func TestEXIFSourceUsesCaptureTime(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "exif_datetime.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	want := time.Date(2019, time.July, 4, 9, 30, 0, 0, time.Local)
	if got := datebucket.SourceEXIF.Timestamp(path, info); !got.Equal(want) {
		t.Fatalf("EXIF Timestamp = %v, want %v", got, want)
	}
	if got := datebucket.SourceModTime.Timestamp(path, info); !got.Equal(mtime) {
		t.Fatalf("mtime Timestamp = %v, want %v", got, mtime)
	}
}

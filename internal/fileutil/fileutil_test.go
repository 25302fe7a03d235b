package fileutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte("verified copy content")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileVerified_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFileVerified(filepath.Join(dir, "nonexistent"), filepath.Join(dir, "dst.bin"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestEnsureDirIsIdempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "c")
	for i := 0; i < 2; i++ {
		if err := EnsureDir(target); err != nil {
			t.Fatalf("EnsureDir attempt %d: %v", i+1, err)
		}
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s: %v", target, err)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "song.mp3")
	dst := filepath.Join(dir, "out", "song.mp3")
	if err := EnsureDir(filepath.Dir(src)); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("la"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source to be gone, got %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "la" {
		t.Fatalf("unexpected destination content %q: %v", got, err)
	}
}

func TestMoveFileFailureKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := MoveFile(src, filepath.Join(dir, "missing", "keep.txt")); err == nil {
		t.Fatal("expected error when destination directory is missing")
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain: %v", err)
	}
}

func TestMoveAcrossDevicesPreservesTimes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	dst := filepath.Join(dir, "sub", "photo.jpg")
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("pixels"), 0o640); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2020, time.February, 2, 8, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := moveAcrossDevices(src, dst); err != nil {
		t.Fatalf("moveAcrossDevices: %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Fatalf("mtime = %v, want %v", info.ModTime(), mtime)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed, got %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the moved file, found %d entries", len(entries))
	}
}

func TestMoveAcrossDevicesKeepsOldDestinationWhenSourceStays(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "locked")
	dstDir := filepath.Join(dir, "dest")
	for _, d := range []string{srcDir, dstDir} {
		if err := EnsureDir(d); err != nil {
			t.Fatal(err)
		}
	}
	src := filepath.Join(srcDir, "report.pdf")
	dst := filepath.Join(dstDir, "report.pdf")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(srcDir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(srcDir, 0o755) })

	if err := moveAcrossDevices(src, dst); err == nil {
		t.Fatal("expected error when source cannot be removed")
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("destination missing after failed move: %v", err)
	}
	if string(got) != "old" {
		t.Fatalf("destination = %q, want old content", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("expected source kept, got %v", err)
	}
	entries, err := os.ReadDir(dstDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temps, found %d entries", len(entries))
	}
}

func TestMoveAcrossDevicesReplacesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := moveAcrossDevices(src, dst); err != nil {
		t.Fatalf("moveAcrossDevices: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("destination = %q, want new content", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the moved file, found %d entries", len(entries))
	}
}

func TestRemoveEmptyDirs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"a/b/c", "a/d", "keep/inner"} {
		if err := EnsureDir(filepath.Join(root, dir)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "keep", "inner", "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := RemoveEmptyDirs(root)
	if err != nil {
		t.Fatalf("RemoveEmptyDirs: %v", err)
	}
	if len(removed) != 4 {
		t.Fatalf("expected 4 removed dirs, got %v", removed)
	}
	if _, err := os.Stat(filepath.Join(root, "a")); !os.IsNotExist(err) {
		t.Fatalf("expected a/ removed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "keep", "inner", "f.txt")); err != nil {
		t.Fatalf("expected kept file: %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("root must survive: %v", err)
	}
}

package organizer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNextFreePath(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"photo.jpg", "photo(1).jpg", ".env"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cases := map[string]string{
		"photo.jpg": "photo(2).jpg",
		".env":      ".env(1)",
		"free.txt":  "free(1).txt",
	}
	for name, want := range cases {
		got, err := nextFreePath(dir, name)
		if err != nil {
			t.Fatalf("nextFreePath(%q): %v", name, err)
		}
		if got != filepath.Join(dir, want) {
			t.Fatalf("nextFreePath(%q) = %s, want %s", name, filepath.Base(got), want)
		}
	}
}

func TestResolveTargetWithoutCollision(t *testing.T) {
	dir := t.TempDir()
	target, ok, err := resolveTarget(dir, "a.txt", CollisionSkip)
	if err != nil || !ok || target != filepath.Join(dir, "a.txt") {
		t.Fatalf("resolveTarget = %s, %v, %v", target, ok, err)
	}
}

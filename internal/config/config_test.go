package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sortbox/internal/category"
	"sortbox/internal/config"
	"sortbox/internal/datebucket"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("SORTBOX_ROOT", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "sortbox", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "state", "sortbox")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Organize.Root != "" {
		t.Fatalf("expected empty root, got %q", cfg.Organize.Root)
	}
	if cfg.Organize.Recursive || cfg.Organize.PruneEmptyDirs {
		t.Fatal("expected flat traversal without pruning by default")
	}
	if !cfg.Organize.PrecreateFolders {
		t.Fatal("expected folder pre-creation by default")
	}
	if cfg.Organize.Collision != config.CollisionRename {
		t.Fatalf("unexpected collision policy %q", cfg.Organize.Collision)
	}
	if cfg.Journal.Enabled {
		t.Fatal("expected journal disabled by default")
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Fatalf("expected local timezone, got %v (%v)", loc, err)
	}
	if cfg.JournalPath() != filepath.Join(wantState, "journal.db") {
		t.Fatalf("unexpected journal path %q", cfg.JournalPath())
	}
}

func TestLoadRootFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	t.Setenv("SORTBOX_ROOT", root)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Organize.Root != root {
		t.Fatalf("expected root %q from env, got %q", root, cfg.Organize.Root)
	}
}

func TestLoadCustomFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SORTBOX_ROOT", "")

	path := filepath.Join(t.TempDir(), "sortbox.toml")
	content := `
[organize]
root = "~/inbox"
recursive = true
prune_empty_dirs = true
date_source = "EXIF"
timezone = "UTC"
collision = "skip"

[journal]
enabled = true

[logging]
format = "json"
level = "debug"

[[rules.extra]]
category = "ebooks"
extensions = ["epub", ".MOBI"]
names = ["README"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	if cfg.Organize.Root != filepath.Join(home, "inbox") {
		t.Fatalf("unexpected root %q", cfg.Organize.Root)
	}
	if !cfg.Organize.Recursive || !cfg.Organize.PruneEmptyDirs {
		t.Fatal("expected recursive + prune")
	}
	if src, _ := cfg.DateSource(); src != datebucket.SourceEXIF {
		t.Fatalf("unexpected date source %q", src)
	}
	if cfg.Organize.Collision != config.CollisionSkip {
		t.Fatalf("unexpected collision %q", cfg.Organize.Collision)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}

	rules := cfg.CategoryRules()
	builtin := len(category.DefaultRules())
	if len(rules) != builtin+2 {
		t.Fatalf("expected %d rules, got %d", builtin+2, len(rules))
	}
	ext := rules[builtin]
	if ext.Category != "ebooks" || ext.Kind != category.MatchSuffix || strings.Join(ext.Tokens, ",") != ".epub,.mobi" {
		t.Fatalf("unexpected extension rule %+v", ext)
	}
	if names := rules[builtin+1]; names.Kind != category.MatchExact || names.Tokens[0] != "readme" {
		t.Fatalf("unexpected name rule %+v", names)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cases := map[string]string{
		"collision":   "[organize]\ncollision = \"merge\"\n",
		"date source": "[organize]\ndate_source = \"ctime\"\n",
		"timezone":    "[organize]\ntimezone = \"Nowhere/Land\"\n",
		"log format":  "[logging]\nformat = \"xml\"\n",
		"log level":   "[logging]\nlevel = \"trace\"\n",
		"reserved":    "[[rules.extra]]\ncategory = \"others\"\nextensions = [\".x\"]\n",
		"duplicates":  "[[rules.extra]]\ncategory = \"duplicates\"\nextensions = [\".x\"]\n",
		"empty rule":  "[[rules.extra]]\ncategory = \"misc\"\n",
		"bad folder":  "[[rules.extra]]\ncategory = \"a/b\"\nextensions = [\".x\"]\n",
		"unknown key": "[organize]\nrecursve = true\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, _, _, err := config.Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if !strings.HasSuffix(cfg.Organize.Root, "Downloads") {
		t.Fatalf("unexpected sample root %q", cfg.Organize.Root)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/a/../b")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "b") {
		t.Fatalf("ExpandPath = %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("empty path expanded to %q", got)
	}
}

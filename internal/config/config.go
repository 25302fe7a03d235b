package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"sortbox/internal/category"
	"sortbox/internal/datebucket"
)

//go:embed sample_config.toml
var sampleConfig string

// Organize controls a single organize run.
type Organize struct {
	Root             string `toml:"root"`
	Recursive        bool   `toml:"recursive"`
	PruneEmptyDirs   bool   `toml:"prune_empty_dirs"`
	DateSource       string `toml:"date_source"`
	Timezone         string `toml:"timezone"`
	Collision        string `toml:"collision"`
	PrecreateFolders bool   `toml:"precreate_folders"`
}

// Paths contains directories owned by sortbox itself.
type Paths struct {
	StateDir string `toml:"state_dir"`
}

// Journal controls the optional SQLite move journal.
type Journal struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Rule is a user-defined category rule appended after the built-in table.
type Rule struct {
	Category    string   `toml:"category"`
	Subcategory string   `toml:"subcategory"`
	Extensions  []string `toml:"extensions"`
	Names       []string `toml:"names"`
}

// Rules holds rule table extensions.
type Rules struct {
	Extra []Rule `toml:"extra"`
}

// Config encapsulates all configuration values for sortbox.
//
// Configuration sections:
//   - Organize: root directory, traversal mode, date and collision handling
//   - Paths: state directory for the journal and run locks
//   - Journal: move journal toggle
//   - Logging: log format and level
//   - Rules: extra category rules
type Config struct {
	Organize Organize `toml:"organize"`
	Paths    Paths    `toml:"paths"`
	Journal  Journal  `toml:"journal"`
	Logging  Logging  `toml:"logging"`
	Rules    Rules    `toml:"rules"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sortbox/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sortbox.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory that holds run locks and the
// journal.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// JournalPath returns the SQLite journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// Location returns the timezone used for date buckets.
func (c *Config) Location() (*time.Location, error) {
	return datebucket.LoadLocation(c.Organize.Timezone)
}

// DateSource returns the configured timestamp source.
func (c *Config) DateSource() (datebucket.Source, error) {
	return datebucket.ParseSource(c.Organize.DateSource)
}

// CategoryRules returns the built-in rule table followed by any extra rules.
// Extensions of an extra rule are evaluated before its exact names.
func (c *Config) CategoryRules() []category.Rule {
	rules := category.DefaultRules()
	for _, extra := range c.Rules.Extra {
		if len(extra.Extensions) > 0 {
			rules = append(rules, category.Rule{
				Category:    extra.Category,
				Subcategory: extra.Subcategory,
				Kind:        category.MatchSuffix,
				Tokens:      append([]string(nil), extra.Extensions...),
			})
		}
		if len(extra.Names) > 0 {
			rules = append(rules, category.Rule{
				Category:    extra.Category,
				Subcategory: extra.Subcategory,
				Kind:        category.MatchExact,
				Tokens:      append([]string(nil), extra.Names...),
			})
		}
	}
	return rules
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "sortbox")
	}
	return "~/.local/state/sortbox"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

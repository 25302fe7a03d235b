package config

import (
	"errors"
	"fmt"
	"strings"

	"sortbox/internal/category"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateRules(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if _, err := c.DateSource(); err != nil {
		return fmt.Errorf("organize.date_source: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("organize.timezone: %w", err)
	}
	switch c.Organize.Collision {
	case CollisionRename, CollisionSkip, CollisionOverwrite:
	default:
		return fmt.Errorf("organize.collision must be one of rename, skip, overwrite (got %q)", c.Organize.Collision)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Journal.Enabled && strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set when journal.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateRules() error {
	for i, rule := range c.Rules.Extra {
		label := fmt.Sprintf("rules.extra[%d]", i)
		if rule.Category == "" {
			return fmt.Errorf("%s.category must be set", label)
		}
		for _, segment := range []string{rule.Category, rule.Subcategory} {
			if strings.ContainsAny(segment, `/\`) || segment == "." || segment == ".." {
				return fmt.Errorf("%s: %q is not a valid folder name", label, segment)
			}
		}
		if category.IsReserved(rule.Category) {
			return fmt.Errorf("%s.category %q is reserved", label, rule.Category)
		}
		if len(rule.Extensions) == 0 && len(rule.Names) == 0 {
			return fmt.Errorf("%s needs at least one extension or name", label)
		}
	}
	return nil
}

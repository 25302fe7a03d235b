package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeLogging()
	c.normalizeRules()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Organize.Root) == "" {
		if value, ok := os.LookupEnv("SORTBOX_ROOT"); ok {
			c.Organize.Root = value
		}
	}
	if c.Organize.Root, err = expandPath(strings.TrimSpace(c.Organize.Root)); err != nil {
		return fmt.Errorf("organize.root: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrganize() {
	c.Organize.DateSource = strings.ToLower(strings.TrimSpace(c.Organize.DateSource))
	if c.Organize.DateSource == "" {
		c.Organize.DateSource = defaultDateSource
	}
	c.Organize.Timezone = strings.TrimSpace(c.Organize.Timezone)
	if c.Organize.Timezone == "" {
		c.Organize.Timezone = defaultTimezone
	}
	c.Organize.Collision = strings.ToLower(strings.TrimSpace(c.Organize.Collision))
	if c.Organize.Collision == "" {
		c.Organize.Collision = defaultCollision
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeRules() {
	for i := range c.Rules.Extra {
		rule := &c.Rules.Extra[i]
		rule.Category = strings.TrimSpace(rule.Category)
		rule.Subcategory = strings.TrimSpace(rule.Subcategory)
		rule.Extensions = normalizeTokens(rule.Extensions, true)
		rule.Names = normalizeTokens(rule.Names, false)
	}
}

func normalizeTokens(values []string, dotted bool) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if dotted && !strings.HasPrefix(v, ".") {
			v = "." + v
		}
		out = append(out, v)
	}
	return out
}

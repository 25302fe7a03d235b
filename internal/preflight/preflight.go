package preflight

import (
	"strings"

	"sortbox/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks that apply to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if root := strings.TrimSpace(cfg.Organize.Root); root != "" {
		results = append(results, CheckDirectoryAccess("Organize root", root))
	}
	if cfg.Journal.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	return results
}

// Package preflight provides readiness checks for the filesystem paths
// sortbox depends on.
//
// CheckRoot gates every organize run: a missing or non-directory root aborts
// before any directory is created or file is moved. RunAll backs the
// "config validate" command.
package preflight

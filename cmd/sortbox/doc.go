// Package main hosts the sortbox CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, takes the per-root run
// lock, opens the optional journal and then hands off to the organizer.
// Rendering (progress bar, summary tables, JSON) stays here; the sorting rules
// live in the internal packages.
package main

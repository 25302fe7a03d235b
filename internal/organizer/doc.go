// Package organizer files every regular file of a directory tree into
// root/<year>/<month>/<week>/<category>[/<subcategory>] folders.
//
// Organize validates the root, optionally pre-creates the top-level category,
// duplicates and others folders, snapshots the files to process (flat or
// recursive), places each one, reports it to the caller's Notifier and finally
// prunes empty directories when asked. Files whose names collide with an entry
// of their target folder under the dupes heuristic go to the flat duplicates
// folder instead.
//
// Per-file failures are collected in the Report and never stop the walk. Only
// an invalid root or a canceled context ends a run early. Execution is
// sequential: listing a target folder, deciding duplicate-or-not and moving
// the file happen back to back for one file at a time.
package organizer

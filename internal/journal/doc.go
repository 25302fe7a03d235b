// Package journal records organize runs and the placement of every file in a
// SQLite database under the state directory.
//
// Each run gets a uuid. Placements are appended as they happen through a
// Recorder, which plugs into the organizer as a Notifier, and the run row is
// closed with summary counts when the walk ends. The journal is an audit
// trail only; nothing reads it back to reverse a run.
//
// Schema changes bump schemaVersion in schema.go; users delete journal.db to
// adopt the new schema.
package journal

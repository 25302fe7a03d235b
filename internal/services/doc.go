// Package services defines shared utilities consumed by the organizer and the
// CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and the organize root for
//     logging.
//   - Structured error markers plus the Wrap helper that separate fatal run
//     failures from per-file problems.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform.
package services

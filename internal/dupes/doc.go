// Package dupes implements the name-based duplicate heuristic.
//
// Two names collide when they are equal after removing every parenthesized
// integer such as "(1)" and trimming surrounding whitespace. File contents are
// never compared, so unrelated files that differ only by a counter are treated
// as duplicates.
package dupes

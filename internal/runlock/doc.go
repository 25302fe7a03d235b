// Package runlock prevents two organize runs from working on the same root at
// once. Locks are advisory flock files under <state_dir>/locks, keyed by a
// hash of the absolute root path, so they never appear inside the tree being
// organized.
package runlock

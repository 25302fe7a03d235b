// Package datebucket turns a file timestamp into the year, month and week
// folders it is filed under.
//
// Weeks follow the Sunday-start convention: days before the first Sunday of
// the year belong to week 0. Bucketing is evaluated in a caller-supplied
// location; the CLI defaults to the local timezone.
package datebucket

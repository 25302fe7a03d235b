// Package category maps file names onto library category folders.
//
// Rules form an ordered list and the first match wins, so the order of
// DefaultRules is part of the package contract. Callers route unmatched names
// to the "others" folder themselves.
package category

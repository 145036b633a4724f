// Package textnorm holds the whitespace and case folding shared by the
// extractor, the deduplicator and the similarity engine.
package textnorm

import "strings"

// Clean trims the text and collapses every internal whitespace run to a
// single space.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize is Clean followed by lowercasing. Two questions that differ only
// in case or spacing normalise to the same key.
func Normalize(s string) string {
	return strings.ToLower(Clean(s))
}

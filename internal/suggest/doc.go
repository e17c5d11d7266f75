// Package suggest proposes mapping rules from a pair of sample documents.
//
// Every leaf of the target sample is ranked against every leaf of the source
// sample by name similarity and by whether a catalog transform turns the
// source value into the target value. Clear winners become rules; the rest are
// reported as unmapped with their best candidates.
package suggest

// Package match provides name normalization, Levenshtein distance calculation
// and candidate ranking used to suggest known names for misspelled ones.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - RankNames: ranks known names against a query
//   - Suggest: returns the closest known names worth showing to an operator
package match

package match

import (
	"sort"
)

// Candidate is a known name scored against a query.
type Candidate struct {
	Name string

	// Score is the normalized Levenshtein similarity (0-1), higher is closer.
	Score float64

	// Exact is true when the names are equal after normalization
	// (case and separators ignored).
	Exact bool
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankNames scores every known name against query and returns the candidates
// sorted by score (descending), then by name for determinism.
func RankNames(query string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	queryNorm := NormalizeIdent(query)

	for _, name := range known {
		nameNorm := NormalizeIdent(name)

		candidates = append(candidates, Candidate{
			Name:  name,
			Score: LevenshteinNormalized(queryNorm, nameNorm),
			Exact: queryNorm == nameNorm,
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to n known names close enough to query to be offered as
// a correction. Normalized-equal names always qualify.
func Suggest(query string, known []string, n int) []string {
	ranked := RankNames(query, known).AboveThreshold(DefaultSuggestionScore).Top(n)

	names := make([]string, 0, len(ranked))
	for _, c := range ranked {
		names = append(names, c.Name)
	}

	return names
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Exact != c[j].Exact {
		return c[i].Exact
	}

	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// AboveThreshold returns candidates scoring at least threshold, plus exact matches.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.Exact || cand.Score >= threshold {
			result = append(result, cand)
		}
	}
	return result
}

// DefaultSuggestionScore is the minimum similarity for a name to be suggested.
const DefaultSuggestionScore = 0.6

package suggest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"

	"docmapper/internal/diagnostic"
	"docmapper/internal/mapping"
	"docmapper/internal/match"
	"docmapper/internal/transform"
)

// Config tunes when a candidate is accepted.
type Config struct {
	// MinConfidence is the lowest combined score a match may have.
	MinConfidence float64
	// MinGap is how far the best candidate must lead the runner-up.
	MinGap float64
	// MaxCandidates bounds the candidates kept for unmapped fields.
	MaxCandidates int
}

// DefaultConfig returns the thresholds used by the CLI.
func DefaultConfig() Config {
	return Config{MinConfidence: 0.7, MinGap: 0.05, MaxCandidates: 3}
}

const (
	nameWeight = 0.7
	typeWeight = 0.3

	// exampleScore is given when a transform reproduces the target sample.
	exampleScore = 1.0
	// kindScore is given when the kinds are compatible but the samples differ.
	kindScore = 0.5
)

// exampleOrder is the order in which transforms are tried against samples.
var exampleOrder = []transform.Kind{
	transform.Copy,
	transform.ToUpperCase,
	transform.ToLowerCase,
	transform.Capitalize,
	transform.FormatDate,
	transform.MapGender,
	transform.ToString,
	transform.ToBool,
}

// Candidate is a source field scored against a target field.
type Candidate struct {
	Source    Field
	Transform transform.Kind
	NameScore float64
	TypeScore float64
	Score     float64
}

// Candidates is sorted by Score, highest first.
type Candidates []Candidate

func (c Candidates) Len() int      { return len(c) }
func (c Candidates) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

func (c Candidates) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Source.Path.String() < c[j].Source.Path.String()
}

// Top returns the first n candidates.
func (c Candidates) Top(n int) Candidates {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// IsAmbiguous reports whether the top two candidates are closer than gap.
func (c Candidates) IsAmbiguous(gap float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].Score-c[1].Score < gap
}

// HighConfidence returns the best candidate when it clears minScore and leads
// the runner-up by at least minGap, nil otherwise.
func (c Candidates) HighConfidence(minScore, minGap float64) *Candidate {
	if len(c) == 0 || c[0].Score < minScore || c.IsAmbiguous(minGap) {
		return nil
	}

	return &c[0]
}

// Unmapped is a target field no source field matched with confidence.
type Unmapped struct {
	Target     Field
	Candidates Candidates
	Reason     string
}

// Result holds the proposed rules in target field order.
type Result struct {
	Rules       []mapping.MappingRule
	Unmapped    []Unmapped
	Diagnostics *diagnostic.Diagnostics
}

// Rules proposes one rule per target leaf that a source leaf matches.
func Rules(source, target any, cfg Config) *Result {
	sources := Fields(source)
	res := &Result{Diagnostics: &diagnostic.Diagnostics{}}

	for _, tf := range Fields(target) {
		id := tf.Path.String()
		candidates := rank(tf, sources)

		if best := candidates.HighConfidence(cfg.MinConfidence, cfg.MinGap); best != nil {
			res.Rules = append(res.Rules, mapping.MappingRule{
				ID:              id,
				SourcePath:      best.Source.Path,
				DestinationPath: tf.Path,
				TransformType:   best.Transform,
			})

			res.Diagnostics.AddInfo("auto_matched",
				fmt.Sprintf("%s -> %s with %s (score: %.2f)", best.Source.Path, tf.Path, best.Transform, best.Score),
				id, "source_path")

			continue
		}

		reason := unmappedReason(candidates, cfg)
		top := candidates.Top(cfg.MaxCandidates)

		names := make([]string, len(top))
		for i, c := range top {
			names[i] = c.Source.Path.String()
		}

		res.Unmapped = append(res.Unmapped, Unmapped{Target: tf, Candidates: top, Reason: reason})
		res.Diagnostics.AddWarning("unmapped_field",
			fmt.Sprintf("target field %q: %s", id, reason), id, "destination_path", names...)
	}

	return res
}

func rank(target Field, sources []Field) Candidates {
	candidates := make(Candidates, 0, len(sources))
	targetLeaf := match.NormalizeIdent(target.Leaf())

	for _, sf := range sources {
		kind, typeScore := inferTransform(sf, target)
		if typeScore == 0 {
			continue
		}

		nameScore := match.LevenshteinNormalized(targetLeaf, match.NormalizeIdent(sf.Leaf()))

		candidates = append(candidates, Candidate{
			Source:    sf,
			Transform: kind,
			NameScore: nameScore,
			TypeScore: typeScore,
			Score:     nameWeight*nameScore + typeWeight*typeScore,
		})
	}

	sort.Sort(candidates)

	return candidates
}

// inferTransform picks the transform that turns the source sample into the
// target sample. Without such a transform it falls back on kind compatibility,
// returning a zero score for incompatible kinds.
func inferTransform(source, target Field) (transform.Kind, float64) {
	if target.Kind != KindNull {
		for _, kind := range exampleOrder {
			out, err := transform.Apply(kind, source.Sample)
			if err == nil && cmp.Equal(out, target.Sample) {
				return kind, exampleScore
			}
		}
	}

	switch {
	case target.Kind == KindNull || source.Kind == target.Kind:
		return transform.Copy, kindScore
	case target.Kind == KindString && (source.Kind == KindNumber || source.Kind == KindBool):
		return transform.ToString, kindScore
	case target.Kind == KindBool && source.Kind != KindList && source.Kind != KindObject:
		return transform.ToBool, kindScore
	default:
		return transform.Copy, 0
	}
}

func unmappedReason(c Candidates, cfg Config) string {
	switch {
	case len(c) == 0:
		return "no compatible source fields found"
	case c[0].Score < cfg.MinConfidence:
		return fmt.Sprintf("best match %q (%.2f) below threshold %.2f",
			c[0].Source.Path.String(), c[0].Score, cfg.MinConfidence)
	case c.IsAmbiguous(cfg.MinGap):
		return fmt.Sprintf("ambiguous: top candidates %q (%.2f) and %q (%.2f) are too close",
			c[0].Source.Path.String(), c[0].Score, c[1].Source.Path.String(), c[1].Score)
	default:
		return "no high-confidence match"
	}
}

// Explain renders a one-line summary per unmapped field.
func (r *Result) Explain() string {
	var b strings.Builder

	for _, u := range r.Unmapped {
		b.WriteString(u.Target.Path.String())
		b.WriteString(": ")
		b.WriteString(u.Reason)

		for _, c := range u.Candidates {
			b.WriteString("\n  ")
			b.WriteString(c.Source.Path.String())
			b.WriteString(" ")
			b.WriteString(strconv.FormatFloat(c.Score, 'f', 2, 64))
		}

		b.WriteString("\n")
	}

	return b.String()
}

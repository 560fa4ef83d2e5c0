package classify

import (
	"context"
	"sort"
	"strings"
)

// EmptyEvidence is the evidence reported for blank input.
const EmptyEvidence = "Empty text"

// RuleBackendName identifies results produced by the rule-based classifier.
const RuleBackendName = "rules"

// Result is the outcome of classifying one piece of text.
type Result struct {
	Primary    string
	Backend    string
	Secondary  []string
	Evidence   []string
	Scores     []Score
	Confidence float64
	// Fallback is set when the low-signal fallback category was chosen.
	Fallback bool
}

// Classifier runs the scorer over every category of a table and resolves the
// winner. It is safe for concurrent use.
type Classifier struct {
	table  *Table
	scorer Scorer
}

// New creates a classifier for table.
func New(table *Table) *Classifier {
	return &Classifier{
		table:  table,
		scorer: NewScorer(table.policy),
	}
}

// Table returns the classifier's category table.
func (c *Classifier) Table() *Table { return c.table }

// Analyze implements Analyzer.
func (c *Classifier) Analyze(_ context.Context, text string) Result {
	return c.Classify(text)
}

// Classify classifies text. It never fails: blank text yields the table's
// empty category with zero confidence.
func (c *Classifier) Classify(text string) Result {
	t := c.table
	p := t.policy

	if strings.TrimSpace(text) == "" {
		return Result{
			Primary:    t.Empty(),
			Secondary:  []string{},
			Confidence: 0.0,
			Evidence:   []string{EmptyEvidence},
			Backend:    RuleBackendName,
		}
	}

	normalized := t.Normalize(text)
	scores := make([]Score, len(t.categories))
	for i, cat := range t.categories {
		scores[i] = c.scorer.Score(text, normalized, cat)
	}
	for _, adj := range t.adjustments {
		adj.Apply(scores, normalized, p)
	}

	ranked := rank(scores)
	primary := ranked[0]
	primaryScore := scores[primary].Value

	var secondary []int
	for _, i := range ranked[1:] {
		if s := scores[i].Value; s > 0 && s >= primaryScore*p.SecondaryRatio {
			secondary = append(secondary, i)
		}
	}

	confidence := p.ZeroScoreConfidence
	if primaryScore > 0 {
		confidence = primaryScore / (sum(scores) + p.Epsilon)
	}

	fallback := false
	if primaryScore < p.LowSignal {
		primary = t.fallback
		confidence = p.FallbackConfidence
		fallback = true
	}

	labels := make([]string, 0, p.MaxSecondary)
	for _, i := range secondary {
		if len(labels) == p.MaxSecondary {
			break
		}
		if i != primary {
			labels = append(labels, scores[i].Category)
		}
	}

	return Result{
		Primary:    scores[primary].Category,
		Secondary:  labels,
		Confidence: clamp(confidence),
		Evidence:   c.evidence(scores[primary].Evidence),
		Scores:     scores,
		Fallback:   fallback,
		Backend:    RuleBackendName,
	}
}

func (c *Classifier) evidence(all []string) []string {
	limit := c.table.policy.EvidenceLimit
	if len(all) < limit {
		limit = len(all)
	}
	out := append([]string{}, all[:limit]...)
	if len(out) == 0 && c.table.noEvidence != "" {
		out = append(out, c.table.noEvidence)
	}
	return out
}

// rank orders score indices by value, highest first, keeping declaration
// order for ties.
func rank(scores []Score) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]].Value > scores[idx[b]].Value
	})
	return idx
}

func sum(scores []Score) float64 {
	var total float64
	for _, s := range scores {
		total += s.Value
	}
	return total
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

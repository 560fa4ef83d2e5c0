package classify

import "strings"

// Adjustment is a named post-scoring rule. Apply adjusts scores in place; the
// slice belongs to a single classification and text is the normalized input.
type Adjustment struct {
	Apply func(scores []Score, text string, policy Policy)
	Name  string
}

// NegationRule removes keywords of target that are negated within the
// policy's word window, crediting the credit category for each one.
func NegationRule(target, credit string, negations []string) Adjustment {
	set := wordSet(negations)
	return Adjustment{
		Name: "negation",
		Apply: func(scores []Score, text string, policy Policy) {
			t := findScore(scores, target)
			if t == nil || len(t.KeywordHits) == 0 {
				return
			}
			c := findScore(scores, credit)

			kept := make([]string, 0, len(t.KeywordHits))
			for _, k := range t.KeywordHits {
				if !isNegated(text, k, set, policy.NegationWindow) {
					kept = append(kept, k)
					continue
				}
				t.Value -= policy.KeywordWeight
				t.Evidence = removeItem(t.Evidence, k)
				if c != nil {
					c.Value += policy.NegationCredit
				}
			}
			t.KeywordHits = kept
		},
	}
}

// IntensifierRule scales the non-zero scores of categories when any
// intensifier word occurs in the text.
func IntensifierRule(intensifiers []string, categories ...string) Adjustment {
	set := wordSet(intensifiers)
	return Adjustment{
		Name: "intensifier",
		Apply: func(scores []Score, text string, policy Policy) {
			if !containsWord(text, set) {
				return
			}
			for _, name := range categories {
				if s := findScore(scores, name); s != nil && s.Value != 0 {
					s.Value *= policy.IntensifierFactor
				}
			}
		},
	}
}

// NeutralBiasRule adds the policy's neutral prior to category.
func NeutralBiasRule(category string) Adjustment {
	return Adjustment{
		Name: "neutral-bias",
		Apply: func(scores []Score, _ string, policy Policy) {
			if s := findScore(scores, category); s != nil {
				s.Value += policy.NeutralBias
			}
		},
	}
}

// isNegated reports whether one of the window words before the first
// occurrence of keyword is a negation.
func isNegated(text, keyword string, negations map[string]struct{}, window int) bool {
	pos := strings.Index(text, keyword)
	if pos < 0 || window == 0 {
		return false
	}

	before := strings.Fields(text[:pos])
	if len(before) > window {
		before = before[len(before)-window:]
	}
	for _, w := range before {
		if _, ok := negations[w]; ok {
			return true
		}
	}
	return false
}

func containsWord(text string, words map[string]struct{}) bool {
	for _, w := range strings.Fields(text) {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func findScore(scores []Score, category string) *Score {
	for i := range scores {
		if scores[i].Category == category {
			return &scores[i]
		}
	}
	return nil
}

func removeItem(list []string, item string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != item {
			out = append(out, v)
		}
	}
	return out
}

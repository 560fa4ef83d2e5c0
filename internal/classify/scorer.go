package classify

import "strings"

// QuestionMarkEvidence is recorded when the question bonus applies.
const QuestionMarkEvidence = "question mark"

// Score is the match score and evidence of one category for one text.
type Score struct {
	Category string
	Evidence []string
	// KeywordHits lists the keywords that contributed, in match order.
	KeywordHits []string
	Value       float64
}

// Scorer computes a Score for a (text, category) pair.
type Scorer struct {
	policy Policy
}

// NewScorer creates a scorer using the weights in policy.
func NewScorer(policy Policy) Scorer {
	return Scorer{policy: policy}
}

// Score matches normalized against c. Each pattern is searched once and each
// keyword tested once; raw is only consulted for the question bonus.
func (s Scorer) Score(raw, normalized string, c Category) Score {
	score := Score{Category: c.Name()}

	for _, re := range c.patterns {
		loc := re.FindStringIndex(normalized)
		if loc == nil {
			continue
		}
		score.Value += s.policy.PatternWeight
		score.Evidence = appendUnique(score.Evidence, normalized[loc[0]:loc[1]])
	}

	for _, k := range MatchKeywords(normalized, c.keywords) {
		score.Value += s.policy.KeywordWeight
		score.KeywordHits = append(score.KeywordHits, k)
		score.Evidence = appendUnique(score.Evidence, k)
	}

	if c.questionLike && strings.Contains(raw, "?") {
		score.Value += s.policy.QuestionBonus
		score.Evidence = appendUnique(score.Evidence, QuestionMarkEvidence)
	}

	return score
}

// MatchKeywords returns the keywords contained in text, case-insensitively,
// in keyword order.
func MatchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var hits []string
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			hits = appendUnique(hits, k)
		}
	}
	return hits
}

// ContainsAny reports whether text contains any of keywords.
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, item string) []string {
	if item == "" {
		return list
	}
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}

package classify

import "fmt"

// Policy holds the tunable weights and thresholds of the classifier.
type Policy struct {
	// PatternWeight is added once per distinct pattern match.
	PatternWeight float64 `mapstructure:"pattern_weight"`
	// KeywordWeight is added once per keyword found.
	KeywordWeight float64 `mapstructure:"keyword_weight"`
	// QuestionBonus is added to question-like categories when the text has a "?".
	QuestionBonus float64 `mapstructure:"question_bonus"`
	// SecondaryRatio is the fraction of the primary score a runner-up needs.
	SecondaryRatio float64 `mapstructure:"secondary_ratio"`
	// MaxSecondary caps the number of secondary categories.
	MaxSecondary int `mapstructure:"max_secondary"`
	// LowSignal is the primary score below which the fallback category wins.
	LowSignal float64 `mapstructure:"low_signal"`
	// FallbackConfidence is reported when the fallback category wins.
	FallbackConfidence float64 `mapstructure:"fallback_confidence"`
	// ZeroScoreConfidence is reported when the primary score is zero.
	ZeroScoreConfidence float64 `mapstructure:"zero_score_confidence"`
	// Epsilon keeps the confidence denominator positive.
	Epsilon float64 `mapstructure:"epsilon"`
	// EvidenceLimit caps the evidence returned with a result.
	EvidenceLimit int `mapstructure:"evidence_limit"`
	// NegationWindow is how many preceding words are checked for a negation.
	NegationWindow int `mapstructure:"negation_window"`
	// NegationCredit moves to the opposing category per negated keyword.
	NegationCredit float64 `mapstructure:"negation_credit"`
	// IntensifierFactor multiplies scores when an intensifier is present.
	IntensifierFactor float64 `mapstructure:"intensifier_factor"`
	// NeutralBias is the prior given to the neutral sentiment category.
	NeutralBias float64 `mapstructure:"neutral_bias"`
}

// DefaultPolicy returns the weights the rule tables were tuned against.
func DefaultPolicy() Policy {
	return Policy{
		PatternWeight:       2.0,
		KeywordWeight:       1.0,
		QuestionBonus:       1.5,
		SecondaryRatio:      0.5,
		MaxSecondary:        2,
		LowSignal:           0.5,
		FallbackConfidence:  0.3,
		ZeroScoreConfidence: 0.1,
		Epsilon:             0.01,
		EvidenceLimit:       3,
		NegationWindow:      3,
		NegationCredit:      0.5,
		IntensifierFactor:   1.5,
		NeutralBias:         0.5,
	}
}

// Validate checks that the policy values are usable.
func (p Policy) Validate() error {
	switch {
	case p.PatternWeight < 0 || p.KeywordWeight < 0 || p.QuestionBonus < 0:
		return fmt.Errorf("weights must not be negative")
	case p.SecondaryRatio < 0 || p.SecondaryRatio > 1:
		return fmt.Errorf("secondary_ratio must be between 0 and 1, got %v", p.SecondaryRatio)
	case p.MaxSecondary < 0:
		return fmt.Errorf("max_secondary must not be negative")
	case p.FallbackConfidence < 0 || p.FallbackConfidence > 1:
		return fmt.Errorf("fallback_confidence must be between 0 and 1, got %v", p.FallbackConfidence)
	case p.ZeroScoreConfidence < 0 || p.ZeroScoreConfidence > 1:
		return fmt.Errorf("zero_score_confidence must be between 0 and 1, got %v", p.ZeroScoreConfidence)
	case p.Epsilon <= 0:
		return fmt.Errorf("epsilon must be positive")
	case p.EvidenceLimit < 1:
		return fmt.Errorf("evidence_limit must be at least 1")
	case p.NegationWindow < 0:
		return fmt.Errorf("negation_window must not be negative")
	case p.IntensifierFactor < 1:
		return fmt.Errorf("intensifier_factor must be at least 1, got %v", p.IntensifierFactor)
	}
	return nil
}

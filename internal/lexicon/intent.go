// Package lexicon holds the category tables and vocabularies used by the
// transcript analyses.
package lexicon

import "github.com/Veraticus/physician-notetaker/internal/classify"

// Patient intent labels.
const (
	IntentSeekingReassurance   = "Seeking reassurance"
	IntentReportingSymptoms    = "Reporting symptoms"
	IntentExpressingConcern    = "Expressing concern"
	IntentAskingQuestion       = "Asking question"
	IntentProvidingInformation = "Providing information"
	IntentAcknowledging        = "Acknowledging"
	IntentExpressingGratitude  = "Expressing gratitude"
)

func intentCategories() []classify.CategorySpec {
	return []classify.CategorySpec{
		{
			Name: IntentSeekingReassurance,
			Patterns: []string{
				`\b(will|does|is)\s+(this|it)\s+(affect|impact|get|be)`,
				`\bdon't.*need to worry\b`,
				`\b(will|should)\s+i\s+be\s+(okay|fine|alright)`,
				`\b(is|are)\s+(that|this|there)\s+(normal|okay|fine)`,
				`\bhope\s+(it|this|that|things)`,
			},
			Keywords: []string{
				"will this", "is this", "should i worry", "need to worry",
				"affect me", "in the future", "what if", "hoping",
				"get better", "be okay", "is that normal",
			},
		},
		{
			Name: IntentReportingSymptoms,
			Patterns: []string{
				`\bi\s+(have|had|feel|felt|experience|experienced)\s+\w*\s*(pain|ache|discomfort)`,
				`\bmy\s+\w+\s+(hurts?|aches?|is\s+sore)`,
				`\bi\s+(can't|couldn't|have\s+trouble)`,
				`\bthe\s+(pain|ache|discomfort)\s+(is|was|started)`,
			},
			Keywords: []string{
				"pain", "ache", "hurts", "hurt", "discomfort", "sore", "stiff",
				"can't sleep", "trouble sleeping", "have trouble",
				"felt", "feeling", "experiencing",
			},
		},
		{
			Name: IntentExpressingConcern,
			Patterns: []string{
				`\bi'm\s+(worried|concerned|afraid|scared|nervous)`,
				`\bi\s+(worry|fear|dread)`,
				`\bwhat\s+if\s+(it|this|things)`,
				`\bcould\s+(this|it)\s+be\s+(serious|bad|dangerous)`,
			},
			Keywords: []string{
				"worried", "concerned", "afraid", "scared", "nervous",
				"fear", "anxious", "bothers me", "concerning",
			},
		},
		{
			Name: IntentAskingQuestion,
			Patterns: []string{
				`^(what|when|where|why|how|is|are|do|does|can|could|will|would|should)`,
				`\?$`,
				`\bcan\s+you\s+tell\s+me\b`,
				`\bwhat\s+does\s+this\s+mean\b`,
			},
			Keywords: []string{
				"what", "when", "where", "why", "how", "which",
				"is it", "are there", "do i", "should i", "can i",
			},
			QuestionLike: true,
		},
		{
			Name: IntentProvidingInformation,
			Patterns: []string{
				`\bi\s+(went|visited|saw|had|took|did)`,
				`\byes,?\s+i\b`,
				`\bit\s+was\s+(on|at|in)\b`,
				`\bthey\s+(said|told|gave|checked)`,
			},
			Keywords: []string{
				"i went", "i had", "i took", "they said", "they gave",
				"it was", "i always", "i did", "i was",
			},
		},
		{
			Name: IntentAcknowledging,
			Patterns: []string{
				`^(yes|no|okay|alright|i see|i understand)\b`,
				`\b(got it|understood|makes sense)\b`,
			},
			Keywords: []string{
				"yes", "no", "okay", "alright", "i see", "i understand",
				"got it", "makes sense", "of course", "sure",
			},
		},
		{
			Name: IntentExpressingGratitude,
			Patterns: []string{
				`\bthank\s*(you|s)\b`,
				`\bi\s+appreciate\b`,
				`\bso\s+(glad|happy|relieved)\b`,
				`\bthat's\s+(great|wonderful|a relief)\b`,
			},
			Keywords: []string{
				"thank you", "thanks", "appreciate", "grateful",
				"that's great", "that's a relief", "glad", "relieved",
			},
		},
	}
}

// IntentTable builds the patient intent table.
func IntentTable(policy classify.Policy) (*classify.Table, error) {
	return classify.NewTable(classify.TableConfig{
		Name:       "intent",
		Categories: intentCategories(),
		Fallback:   IntentProvidingInformation,
		Empty:      IntentAcknowledging,
		Normalizer: classify.Normalize,
		Policy:     policy,
	})
}

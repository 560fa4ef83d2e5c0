package lexicon

import "github.com/Veraticus/physician-notetaker/internal/classify"

// Patient sentiment labels.
const (
	SentimentAnxious   = "Anxious"
	SentimentNeutral   = "Neutral"
	SentimentReassured = "Reassured"
)

// NoStrongIndicators is reported when the winning sentiment has no evidence.
const NoStrongIndicators = "No strong indicators"

// AnxiousIndicators are phrases that point to worry or distress.
var AnxiousIndicators = []string{
	"worried", "worry", "worrying", "concern", "concerned", "concerning",
	"afraid", "fear", "scared", "nervous", "anxious", "anxiety",
	// hope often signals an underlying concern
	"hope", "hoping", "hopefully",
	"not sure", "uncertain", "wondering", "what if",
	"might get worse", "could be serious", "something wrong",
	"really bad", "terrible", "awful", "unbearable", "severe",
	"a lot of pain", "hurts so much", "can't take",
	"will this", "is this going to", "affect me in the future",
}

// ReassuredIndicators are phrases that point to relief or acceptance.
var ReassuredIndicators = []string{
	"relief", "relieved", "glad", "happy", "pleased",
	"thank", "thanks", "appreciate", "grateful",
	"great to hear", "good to know", "that's good", "that's great",
	"wonderful", "excellent", "fantastic",
	"doing better", "feeling better", "improving", "improved",
	"getting better", "much better", "a lot better",
	"understand", "makes sense", "okay", "i see",
	"don't worry", "not worried", "no concerns",
}

// NeutralIndicators are factual or acknowledging phrases.
var NeutralIndicators = []string{
	"yes", "no", "okay", "alright",
	"i had", "i went", "i took", "i did",
	"it was", "it is", "there was",
	"i see", "understood", "got it",
}

// NegationWords flip the meaning of the indicator that follows them.
var NegationWords = []string{
	"not", "no", "never", "don't", "doesn't", "didn't", "won't", "can't", "haven't",
}

// Intensifiers amplify emotional indicators.
var Intensifiers = []string{"very", "really", "extremely", "so", "quite", "absolutely"}

// SentimentTable builds the patient sentiment table. Its adjustment rules run
// in order: negation, intensifier, neutral bias.
func SentimentTable(policy classify.Policy) (*classify.Table, error) {
	return classify.NewTable(classify.TableConfig{
		Name: "sentiment",
		Categories: []classify.CategorySpec{
			{Name: SentimentAnxious, Keywords: AnxiousIndicators},
			{Name: SentimentNeutral, Keywords: NeutralIndicators},
			{Name: SentimentReassured, Keywords: ReassuredIndicators},
		},
		Fallback:   SentimentNeutral,
		Empty:      SentimentNeutral,
		NoEvidence: NoStrongIndicators,
		Normalizer: classify.NormalizeWords,
		Adjustments: []classify.Adjustment{
			classify.NegationRule(SentimentAnxious, SentimentReassured, NegationWords),
			classify.IntensifierRule(Intensifiers, SentimentAnxious, SentimentReassured),
			classify.NeutralBiasRule(SentimentNeutral),
		},
		Policy: policy,
	})
}

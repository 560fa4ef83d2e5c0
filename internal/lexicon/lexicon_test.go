package lexicon

import (
	"testing"

	"github.com/Veraticus/physician-notetaker/internal/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntent(t *testing.T) *classify.Classifier {
	t.Helper()
	table, err := IntentTable(classify.DefaultPolicy())
	require.NoError(t, err)
	return classify.New(table)
}

func newSentiment(t *testing.T) *classify.Classifier {
	t.Helper()
	table, err := SentimentTable(classify.DefaultPolicy())
	require.NoError(t, err)
	return classify.New(table)
}

func TestIntentTable(t *testing.T) {
	c := newIntent(t)

	tests := []struct {
		name       string
		text       string
		primary    string
		secondary  []string
		evidence   []string
		confidence float64
	}{
		{
			name:       "gratitude",
			text:       "Thank you, doctor. I appreciate it.",
			primary:    IntentExpressingGratitude,
			secondary:  []string{},
			evidence:   []string{"thank you", "i appreciate", "appreciate"},
			confidence: 6.0 / 6.01,
		},
		{
			name:       "worry with hope",
			text:       "I'm a bit worried about my back pain, but I hope it gets better soon.",
			primary:    IntentSeekingReassurance,
			secondary:  []string{IntentReportingSymptoms, IntentExpressingConcern},
			evidence:   []string{"hope it"},
			confidence: 2.0 / 4.01,
		},
		{
			name:       "reassurance question",
			text:       "So, I don't need to worry about this affecting me in the future?",
			primary:    IntentSeekingReassurance,
			secondary:  []string{IntentAskingQuestion},
			evidence:   []string{"don't need to worry", "need to worry", "in the future"},
			confidence: 4.0 / 7.51,
		},
		{
			name:       "providing information",
			text:       "Yes, I went to Moss Bank Accident and Emergency.",
			primary:    IntentProvidingInformation,
			secondary:  []string{IntentAcknowledging},
			evidence:   []string{"i went", "yes, i"},
			confidence: 5.0 / 8.01,
		},
		{
			name:       "reporting symptoms",
			text:       "My neck and back hurt a lot for four weeks.",
			primary:    IntentReportingSymptoms,
			secondary:  []string{},
			evidence:   []string{"hurt"},
			confidence: 1.0 / 1.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.primary, got.Primary)
			assert.Equal(t, tt.secondary, got.Secondary)
			assert.Equal(t, tt.evidence, got.Evidence)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
		})
	}
}

func TestIntentTable_EmptyAndFallback(t *testing.T) {
	c := newIntent(t)

	got := c.Classify("")
	assert.Equal(t, IntentAcknowledging, got.Primary)
	assert.Equal(t, 0.0, got.Confidence)
	assert.Equal(t, []string{classify.EmptyEvidence}, got.Evidence)

	got = c.Classify("Mmm.")
	assert.Equal(t, IntentProvidingInformation, got.Primary)
	assert.Equal(t, 0.3, got.Confidence)
	assert.True(t, got.Fallback)
}

func TestSentimentTable(t *testing.T) {
	c := newSentiment(t)

	tests := []struct {
		name       string
		text       string
		primary    string
		evidence   []string
		confidence float64
	}{
		{
			name:       "anxious with hope",
			text:       "I'm a bit worried about my back pain, but I hope it gets better soon.",
			primary:    SentimentAnxious,
			evidence:   []string{"worried", "hope"},
			confidence: 2.0 / 2.51,
		},
		{
			name:       "gratitude is reassured",
			text:       "Thank you, doctor. I appreciate it.",
			primary:    SentimentReassured,
			evidence:   []string{"thank", "appreciate"},
			confidence: 2.0 / 2.51,
		},
		{
			name:       "intensifier",
			text:       "I'm really concerned this might affect my work in the future.",
			primary:    SentimentAnxious,
			evidence:   []string{"concern", "concerned"},
			confidence: 3.0 / 3.51,
		},
		{
			name:       "negated anxiety",
			text:       "No, nothing like that. I don't feel nervous driving, and I haven't had any emotional issues from the accident.",
			primary:    SentimentNeutral,
			evidence:   []string{"no"},
			confidence: 1.5 / 2.01,
		},
		{
			name:       "no indicators",
			text:       "The car was blue.",
			primary:    SentimentNeutral,
			evidence:   []string{NoStrongIndicators},
			confidence: 0.5 / 0.51,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.primary, got.Primary)
			assert.Equal(t, tt.evidence, got.Evidence)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
		})
	}
}

func TestSentimentTable_NegationCreditsReassured(t *testing.T) {
	c := newSentiment(t)
	got := c.Classify("No, nothing like that. I don't feel nervous driving.")

	for _, s := range got.Scores {
		switch s.Category {
		case SentimentAnxious:
			assert.InDelta(t, 0.0, s.Value, 1e-9)
			assert.NotContains(t, s.Evidence, "nervous")
		case SentimentReassured:
			assert.InDelta(t, 0.5, s.Value, 1e-9)
		}
	}
}

func TestSentimentTable_Empty(t *testing.T) {
	got := newSentiment(t).Classify("   ")
	assert.Equal(t, SentimentNeutral, got.Primary)
	assert.Equal(t, 0.0, got.Confidence)
	assert.Equal(t, []string{classify.EmptyEvidence}, got.Evidence)
}

func TestTablesAreDeterministic(t *testing.T) {
	intent := newIntent(t)
	sentiment := newSentiment(t)
	text := "Will this affect me? I'm scared, but thank you."

	for i := 0; i < 5; i++ {
		assert.Equal(t, intent.Classify(text), intent.Classify(text))
		assert.Equal(t, sentiment.Classify(text), sentiment.Classify(text))
	}
}

package aggregate

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/physician-notetaker/internal/classify"
	"github.com/Veraticus/physician-notetaker/internal/dialogue"
	"github.com/Veraticus/physician-notetaker/internal/lexicon"
)

const visit = `Physician: How are you feeling today?
Patient: I'm a bit worried about my back pain, but I hope it gets better soon.
Physician: Let's take a look.
[Physical examination conducted]
Patient: Thank you, doctor. I appreciate it.
Patient: That's a relief! I'm so glad to hear that.`

func sentimentAnalyzer(t *testing.T) *classify.Classifier {
	t.Helper()
	table, err := lexicon.SentimentTable(classify.DefaultPolicy())
	require.NoError(t, err)
	return classify.New(table)
}

// echoAnalyzer labels each statement with its own text.
type echoAnalyzer struct {
	calls atomic.Int32
}

func (e *echoAnalyzer) Analyze(_ context.Context, text string) classify.Result {
	e.calls.Add(1)
	return classify.Result{Primary: text, Confidence: 0.5, Evidence: []string{text}}
}

func TestSummarizeText(t *testing.T) {
	c := sentimentAnalyzer(t)
	got := SummarizeText(context.Background(), visit, c, DefaultOptions(lexicon.SentimentNeutral))

	require.False(t, got.Empty())
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, []Count{
		{Label: lexicon.SentimentReassured, Count: 2},
		{Label: lexicon.SentimentAnxious, Count: 1},
	}, got.Counts)
	assert.Equal(t, []string{lexicon.SentimentReassured, lexicon.SentimentAnxious}, got.Labels())

	assert.Equal(t, lexicon.SentimentReassured, got.Overall.Label)
	assert.Equal(t, []string{"worried", "hope", "thank", "appreciate", "relief"}, got.Overall.Evidence)
	want := (2.0/2.51 + 2.0/2.51 + 3.0/3.51) / 3
	assert.InDelta(t, want, got.Overall.Confidence, 1e-9)

	require.Len(t, got.Statements, 3)
	assert.Equal(t, 1, got.Statements[0].Index)
	assert.Equal(t, lexicon.SentimentAnxious, got.Statements[0].Result.Primary)
	assert.Equal(t, "Thank you, doctor. I appreciate it.", got.Statements[1].Text)
}

func TestSummarize_TiesKeepFirstOccurrence(t *testing.T) {
	c := sentimentAnalyzer(t)
	transcript := `Patient: I'm scared about this.
Patient: Thanks, that's good to know.`

	got := SummarizeText(context.Background(), transcript, c, DefaultOptions(lexicon.SentimentNeutral))
	require.Len(t, got.Counts, 2)
	assert.Equal(t, lexicon.SentimentAnxious, got.Counts[0].Label)
	assert.Equal(t, lexicon.SentimentAnxious, got.Overall.Label)
}

func TestSummarize_Empty(t *testing.T) {
	tests := []struct {
		name  string
		turns []dialogue.Turn
	}{
		{name: "no turns", turns: nil},
		{name: "physician only", turns: dialogue.Segment("Physician: Good morning.\nDoctor: Any pain?")},
		{name: "blank patient turn", turns: []dialogue.Turn{{Speaker: dialogue.SpeakerPatient, Text: "  "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &echoAnalyzer{}
			got := Summarize(context.Background(), tt.turns, analyzer, DefaultOptions(lexicon.SentimentNeutral))

			assert.True(t, got.Empty())
			assert.Equal(t, 0, got.Total)
			assert.Empty(t, got.Counts)
			assert.Equal(t, lexicon.SentimentNeutral, got.Overall.Label)
			assert.Equal(t, 0.0, got.Overall.Confidence)
			assert.Equal(t, []string{NoStatementsEvidence}, got.Overall.Evidence)
			assert.Zero(t, analyzer.calls.Load())
		})
	}
}

func TestSummarize_OrderUnderConcurrency(t *testing.T) {
	var turns []dialogue.Turn
	for i := 0; i < 40; i++ {
		turns = append(turns, dialogue.Turn{Speaker: dialogue.SpeakerPatient, Text: fmt.Sprintf("statement %02d", i), Index: i})
	}

	analyzer := &echoAnalyzer{}
	got := Summarize(context.Background(), turns, analyzer, Options{Concurrency: 8, EvidenceLimit: 5})

	assert.Equal(t, int32(40), analyzer.calls.Load())
	require.Len(t, got.Statements, 40)
	for i, st := range got.Statements {
		assert.Equal(t, i, st.Index)
		assert.Equal(t, fmt.Sprintf("statement %02d", i), st.Result.Primary)
	}
	assert.Equal(t, "statement 00", got.Overall.Label)
	assert.Len(t, got.Overall.Evidence, 5)
	assert.InDelta(t, 0.5, got.Overall.Confidence, 1e-9)
}

func TestSummary_ByExcerpt(t *testing.T) {
	prefix := "I have had this dull ache in my lower back for week"
	turns := []dialogue.Turn{
		{Speaker: dialogue.SpeakerPatient, Text: prefix + "s and weeks."},
		{Speaker: dialogue.SpeakerPatient, Text: prefix + "s now.", Index: 1},
		{Speaker: dialogue.SpeakerPatient, Text: "Short one.", Index: 2},
	}

	got := Summarize(context.Background(), turns, &echoAnalyzer{}, DefaultOptions(""))
	keyed := got.ByExcerpt()

	assert.Len(t, got.Statements, 3)
	assert.Len(t, keyed, 2)
	assert.Equal(t, prefix+"s now.", keyed[prefix[:50]+"..."].Primary)
	assert.Contains(t, keyed, "Short one.")
}

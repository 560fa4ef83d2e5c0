package llm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/physician-notetaker/internal/classify"
	"github.com/Veraticus/physician-notetaker/internal/common"
	"github.com/Veraticus/physician-notetaker/internal/lexicon"
)

// fakeClient replays canned replies; errs[i] fails the i-th call.
type fakeClient struct {
	errs       []error
	replies    []string
	lastSystem string
	lastPrompt string
	calls      int
	mu         sync.Mutex
}

func (f *fakeClient) Complete(_ context.Context, system, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	f.calls++
	f.lastSystem, f.lastPrompt = system, prompt
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	return f.replies[min(i, len(f.replies)-1)], nil
}

var fastRetry = Config{Provider: "openai", MaxRetries: 3, RetryDelay: time.Millisecond, RateLimit: 1000}

func intentTable(t *testing.T) *classify.Table {
	t.Helper()
	table, err := lexicon.IntentTable(classify.DefaultPolicy())
	require.NoError(t, err)
	return table
}

func TestBackend_Classify(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		wantPrimary    string
		wantEvidence   []string
		wantConfidence float64
	}{
		{
			name:           "plain json",
			reply:          `{"label": "Expressing gratitude", "confidence": 0.92, "evidence": ["thank you"]}`,
			wantPrimary:    lexicon.IntentExpressingGratitude,
			wantEvidence:   []string{"thank you"},
			wantConfidence: 0.92,
		},
		{
			name:           "fenced json with loose label",
			reply:          "```json\n{\"label\": \" asking QUESTION \", \"confidence\": 0.7, \"evidence\": []}\n```",
			wantPrimary:    lexicon.IntentAskingQuestion,
			wantEvidence:   []string{},
			wantConfidence: 0.7,
		},
		{
			name:           "clamps confidence and evidence",
			reply:          `{"label": "Reporting symptoms", "confidence": 1.7, "evidence": ["a", " ", "b", "c", "d"]}`,
			wantPrimary:    lexicon.IntentReportingSymptoms,
			wantEvidence:   []string{"a", "b", "c"},
			wantConfidence: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{replies: []string{tt.reply}}
			b := NewBackend(client, intentTable(t), fastRetry, nil)

			got, err := b.Classify(context.Background(), "Thank you, doctor.")
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrimary, got.Primary)
			assert.Equal(t, tt.wantEvidence, got.Evidence)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
			assert.Equal(t, "llm:openai", got.Backend)
			assert.Empty(t, got.Secondary)
		})
	}
}

func TestBackend_ClassifyErrors(t *testing.T) {
	tests := []struct {
		client    *fakeClient
		wantErr   error
		name      string
		wantCalls int
	}{
		{
			name:      "unknown label is not retried",
			client:    &fakeClient{replies: []string{`{"label": "Complaining", "confidence": 0.9}`}},
			wantErr:   common.ErrUnknownLabel,
			wantCalls: 1,
		},
		{
			name:      "malformed json is not retried",
			client:    &fakeClient{replies: []string{"I think it's gratitude"}},
			wantErr:   common.ErrInvalidResponse,
			wantCalls: 1,
		},
		{
			name:      "permanent api error",
			client:    &fakeClient{errs: []error{&common.RetryableError{Err: common.ErrInvalidConfig}}},
			wantErr:   common.ErrInvalidConfig,
			wantCalls: 1,
		},
		{
			name: "transient errors exhaust retries",
			client: &fakeClient{errs: []error{
				errors.New("connection reset"), errors.New("connection reset"), errors.New("connection reset"),
			}},
			wantErr:   common.ErrMaxRetries,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend(tt.client, intentTable(t), fastRetry, nil)
			_, err := b.Classify(context.Background(), "Thank you.")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, tt.client.calls)
		})
	}
}

func TestBackend_RetriesThenSucceeds(t *testing.T) {
	client := &fakeClient{
		errs:    []error{errors.New("timeout")},
		replies: []string{"", `{"label": "Acknowledging", "confidence": 0.6}`},
	}
	b := NewBackend(client, intentTable(t), fastRetry, nil)

	got, err := b.Classify(context.Background(), "Okay.")
	require.NoError(t, err)
	assert.Equal(t, lexicon.IntentAcknowledging, got.Primary)
	assert.Equal(t, 2, client.calls)
}

func TestBackend_CachesResults(t *testing.T) {
	client := &fakeClient{replies: []string{`{"label": "Acknowledging", "confidence": 0.6}`}}
	b := NewBackend(client, intentTable(t), fastRetry, nil)
	ctx := context.Background()

	first, err := b.Classify(ctx, "Okay.")
	require.NoError(t, err)
	second, err := b.Classify(ctx, "Okay.")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.calls)

	_, err = b.Classify(ctx, "Alright.")
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
}

func TestBackend_Prompt(t *testing.T) {
	client := &fakeClient{replies: []string{`{"label": "Acknowledging", "confidence": 0.6}`}}
	b := NewBackend(client, intentTable(t), fastRetry, nil)

	_, err := b.Classify(context.Background(), `I said "okay".`)
	require.NoError(t, err)

	assert.Equal(t, classifySystemPrompt, client.lastSystem)
	assert.Contains(t, client.lastPrompt, "Classify the intent of this patient statement.")
	assert.Contains(t, client.lastPrompt, `Statement: "I said \"okay\"."`)
	for _, label := range intentTable(t).Labels() {
		assert.Contains(t, client.lastPrompt, "- "+label+"\n")
	}
}

func TestBackend_WithResilientFallback(t *testing.T) {
	table := intentTable(t)
	rules := classify.New(table)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	client := &fakeClient{replies: []string{`{"label": "Complaining", "confidence": 0.9}`}}
	analyzer := classify.NewResilient(NewBackend(client, table, fastRetry, logger), rules, logger)

	text := "Thank you, doctor. I appreciate it."
	got := analyzer.Analyze(context.Background(), text)

	assert.Equal(t, rules.Classify(text), got)
	assert.Equal(t, classify.RuleBackendName, got.Backend)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "backend=llm:openai")
}

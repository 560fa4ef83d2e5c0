package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/physician-notetaker/internal/classify"
	"github.com/Veraticus/physician-notetaker/internal/common"
)

const classifySystemPrompt = "You classify statements a patient made during a medical consultation. " +
	"You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, " +
	"markdown formatting, or commentary before or after the JSON."

// Backend classifies text with a language model. It implements
// classify.Backend; wrap it in classify.Resilient so failures fall back to
// the rule-based classifier.
type Backend struct {
	client      Client
	table       *classify.Table
	cache       *resultCache
	rateLimiter *rateLimiter
	logger      *slog.Logger
	name        string
	retryOpts   common.RetryOptions
}

// NewBackend creates a backend classifying into the categories of table.
func NewBackend(client Client, table *classify.Table, cfg Config, logger *slog.Logger) *Backend {
	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		provider = "openai"
	}

	return &Backend{
		client:      client,
		table:       table,
		cache:       newResultCache(cfg.CacheTTL),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      common.OrDefault(logger),
		name:        "llm:" + provider,
		retryOpts:   retryOpts,
	}
}

// Name identifies the backend in results and logs.
func (b *Backend) Name() string { return b.name }

// Classify asks the model for the category of text.
func (b *Backend) Classify(ctx context.Context, text string) (classify.Result, error) {
	key := cacheKey(b.table.Name(), text)
	if result, ok := b.cache.get(key); ok {
		b.logger.Debug("cache hit for statement", "table", b.table.Name(), "text_len", len(text))
		return result, nil
	}

	prompt := b.buildPrompt(text)
	var result classify.Result
	err := common.WithRetry(ctx, func() error {
		if err := b.rateLimiter.wait(ctx); err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}

		content, err := b.client.Complete(ctx, classifySystemPrompt, prompt)
		if err != nil {
			return err
		}

		parsed, err := b.parse(content)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		result = parsed
		return nil
	}, b.retryOpts)
	if err != nil {
		return classify.Result{}, fmt.Errorf("%s classification failed: %w", b.name, err)
	}

	b.cache.set(key, result)
	b.logger.Debug("statement classified",
		"table", b.table.Name(),
		"label", result.Primary,
		"confidence", result.Confidence)
	return result, nil
}

func (b *Backend) buildPrompt(text string) string {
	var labels strings.Builder
	for _, label := range b.table.Labels() {
		fmt.Fprintf(&labels, "- %s\n", label)
	}

	return fmt.Sprintf(`Classify the %s of this patient statement.

Statement: %q

Choose exactly one label from:
%s
Respond with JSON in this exact shape:
{"label": "<one label from the list>", "confidence": <number between 0 and 1>, "evidence": ["<short phrase from the statement>"]}`,
		b.table.Name(), text, labels.String())
}

// llmVerdict is the JSON reply the prompt asks for.
type llmVerdict struct {
	Label      string   `json:"label"`
	Evidence   []string `json:"evidence"`
	Confidence float64  `json:"confidence"`
}

// parse validates the model reply against the table. Labels are matched
// case-insensitively and confidence is clamped to [0, 1].
func (b *Backend) parse(content string) (classify.Result, error) {
	var verdict llmVerdict
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(content)), &verdict); err != nil {
		return classify.Result{}, fmt.Errorf("%w: failed to parse JSON response: %w", common.ErrInvalidResponse, err)
	}

	label, ok := b.canonicalLabel(verdict.Label)
	if !ok {
		return classify.Result{}, fmt.Errorf("%w: %q", common.ErrUnknownLabel, verdict.Label)
	}

	limit := b.table.Policy().EvidenceLimit
	evidence := make([]string, 0, limit)
	for _, e := range verdict.Evidence {
		if e = strings.TrimSpace(e); e != "" && len(evidence) < limit {
			evidence = append(evidence, e)
		}
	}

	confidence := verdict.Confidence
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}

	return classify.Result{
		Primary:    label,
		Secondary:  []string{},
		Evidence:   evidence,
		Confidence: confidence,
		Backend:    b.name,
	}, nil
}

func (b *Backend) canonicalLabel(label string) (string, bool) {
	label = strings.TrimSpace(label)
	for _, l := range b.table.Labels() {
		if strings.EqualFold(l, label) {
			return l, true
		}
	}
	return "", false
}

package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/physician-notetaker/internal/common"
)

// Analyzer classifies text without failing.
type Analyzer interface {
	Analyze(ctx context.Context, text string) Result
}

// Backend is a classification strategy that may fail, such as a remote model.
type Backend interface {
	Name() string
	Classify(ctx context.Context, text string) (Result, error)
}

// ruleBackend exposes a Classifier as a Backend.
type ruleBackend struct {
	classifier *Classifier
}

// NewRuleBackend wraps classifier as a Backend that never fails.
func NewRuleBackend(classifier *Classifier) Backend {
	return ruleBackend{classifier: classifier}
}

func (b ruleBackend) Name() string { return RuleBackendName }

func (b ruleBackend) Classify(_ context.Context, text string) (Result, error) {
	return b.classifier.Classify(text), nil
}

// Resilient tries a backend first and falls back to the rule-based classifier
// when the backend is absent, errors or returns a label the table does not
// know.
type Resilient struct {
	backend  Backend
	fallback *Classifier
	logger   *slog.Logger
}

// NewResilient creates a Resilient analyzer. backend may be nil.
func NewResilient(backend Backend, fallback *Classifier, logger *slog.Logger) *Resilient {
	return &Resilient{
		backend:  backend,
		fallback: fallback,
		logger:   common.OrDefault(logger),
	}
}

// Analyze implements Analyzer.
func (r *Resilient) Analyze(ctx context.Context, text string) Result {
	// Blank text always resolves to the table's empty category.
	if r.backend == nil || strings.TrimSpace(text) == "" {
		return r.fallback.Classify(text)
	}

	result, err := r.backend.Classify(ctx, text)
	if err == nil {
		err = r.validate(result)
	}
	if err != nil {
		r.logger.Warn("Backend classification failed, using rule-based classifier",
			"backend", r.backend.Name(),
			"table", r.fallback.Table().Name(),
			"text_len", len(text),
			"error", err)
		return r.fallback.Classify(text)
	}

	return result
}

func (r *Resilient) validate(result Result) error {
	table := r.fallback.Table()
	if !table.Has(result.Primary) {
		return fmt.Errorf("%w: %q", common.ErrUnknownLabel, result.Primary)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range", common.ErrInvalidResponse, result.Confidence)
	}
	return nil
}

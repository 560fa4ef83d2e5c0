package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/physician-notetaker/internal/common"
)

const (
	narrateSystemPrompt = "You are a clinical scribe. Summarize the consultation in at most five plain sentences, " +
		"from the physician's point of view. Do not invent findings that are not in the transcript."
	// narrateLimit bounds the transcript sent to the model.
	narrateLimit = 8000
)

// Narrator writes abstractive visit summaries with a language model.
type Narrator struct {
	client      Client
	rateLimiter *rateLimiter
	logger      *slog.Logger
	retryOpts   common.RetryOptions
}

// NewNarrator creates a narrator using client.
func NewNarrator(client Client, cfg Config, logger *slog.Logger) *Narrator {
	return &Narrator{
		client:      client,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      common.OrDefault(logger),
		retryOpts: common.RetryOptions{
			MaxAttempts:  cfg.MaxRetries,
			InitialDelay: cfg.RetryDelay,
		},
	}
}

// Narrate summarizes transcript.
func (n *Narrator) Narrate(ctx context.Context, transcript string) (string, error) {
	runes := []rune(transcript)
	if len(runes) > narrateLimit {
		transcript = string(runes[:narrateLimit])
	}

	var narrative string
	err := common.WithRetry(ctx, func() error {
		if err := n.rateLimiter.wait(ctx); err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		text, err := n.client.Complete(ctx, narrateSystemPrompt, transcript)
		if err != nil {
			return err
		}
		narrative = text
		return nil
	}, n.retryOpts)
	if err != nil {
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}

	n.logger.Debug("narrative generated", "chars", len(narrative))
	return narrative, nil
}

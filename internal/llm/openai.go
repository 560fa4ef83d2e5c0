package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Veraticus/physician-notetaker/internal/common"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.2
	defaultMaxTokens   = 200
)

// chatAPI is the part of the go-openai client used here.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// openAIClient implements Client on top of the OpenAI chat completion API.
type openAIClient struct {
	api         chatAPI
	model       string
	temperature float32
	maxTokens   int
}

func newOpenAIClient(api chatAPI, cfg Config) *openAIClient {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &openAIClient{
		api:         api,
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
	}
}

// Complete sends the exchange to the chat completion endpoint.
func (c *openAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", classifyAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &common.RetryableError{
			Err:       fmt.Errorf("%w: no completion choices returned", common.ErrInvalidResponse),
			Retryable: false,
		}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyAPIError maps API failures onto the retry policy: throttling and
// server errors are retried, other client errors are not.
func classifyAPIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case status >= http.StatusInternalServerError:
		return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrBackendUnavailable, err), Retryable: true}
	case status >= http.StatusBadRequest:
		return &common.RetryableError{Err: fmt.Errorf("OpenAI API error (status %d): %w", status, err), Retryable: false}
	default:
		return fmt.Errorf("request failed: %w", err)
	}
}

// cleanMarkdownWrapper strips a ```json fence models sometimes wrap replies in.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

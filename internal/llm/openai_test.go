package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/physician-notetaker/internal/common"
)

type fakeChat struct {
	err  error
	resp openai.ChatCompletionResponse
	req  openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	api := &fakeChat{resp: reply("  {\"label\": \"Neutral\"}\n")}
	c := newOpenAIClient(api, Config{})

	got, err := c.Complete(context.Background(), "system text", "user text")
	require.NoError(t, err)
	assert.Equal(t, `{"label": "Neutral"}`, got)

	assert.Equal(t, defaultModel, api.req.Model)
	assert.InDelta(t, defaultTemperature, api.req.Temperature, 1e-6)
	assert.Equal(t, defaultMaxTokens, api.req.MaxTokens)
	require.Len(t, api.req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, api.req.Messages[0].Role)
	assert.Equal(t, "system text", api.req.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, api.req.Messages[1].Role)
	assert.Equal(t, "user text", api.req.Messages[1].Content)
}

func TestOpenAIClient_CompleteConfigured(t *testing.T) {
	api := &fakeChat{resp: reply("ok")}
	c := newOpenAIClient(api, Config{Model: "gpt-4o", Temperature: 0.5, MaxTokens: 50})

	_, err := c.Complete(context.Background(), "s", "p")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", api.req.Model)
	assert.InDelta(t, 0.5, api.req.Temperature, 1e-6)
	assert.Equal(t, 50, api.req.MaxTokens)
}

func TestOpenAIClient_CompleteErrors(t *testing.T) {
	tests := []struct {
		err           error
		wantIs        error
		name          string
		resp          openai.ChatCompletionResponse
		wantRetryable bool
	}{
		{
			name:          "rate limited",
			err:           &openai.APIError{HTTPStatusCode: 429, Message: "slow down"},
			wantIs:        common.ErrRateLimit,
			wantRetryable: true,
		},
		{
			name:          "server error",
			err:           &openai.APIError{HTTPStatusCode: 503, Message: "overloaded"},
			wantIs:        common.ErrBackendUnavailable,
			wantRetryable: true,
		},
		{
			name:          "bad request",
			err:           &openai.RequestError{HTTPStatusCode: 401, Err: errors.New("unauthorized")},
			wantRetryable: false,
		},
		{
			name:          "no choices",
			resp:          openai.ChatCompletionResponse{},
			wantIs:        common.ErrInvalidResponse,
			wantRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newOpenAIClient(&fakeChat{resp: tt.resp, err: tt.err}, Config{})
			_, err := c.Complete(context.Background(), "s", "p")
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.Equal(t, tt.wantRetryable, common.IsRetryable(err))
		})
	}
}

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare", input: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "plain fence", input: "```\n{\"a\":1}\n```  ", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.input))
		})
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		cfg     Config
		ok      bool
	}{
		{name: "openai", cfg: Config{Provider: "openai", APIKey: "sk-test"}, ok: true},
		{name: "default provider", cfg: Config{APIKey: "sk-test"}, ok: true},
		{name: "openai without key", cfg: Config{Provider: "openai"}, wantErr: common.ErrMissingConfig},
		{name: "azure", cfg: Config{Provider: "azure", APIKey: "k", BaseURL: "https://example.openai.azure.com"}, ok: true},
		{name: "azure without url", cfg: Config{Provider: "azure", APIKey: "k"}, wantErr: common.ErrMissingConfig},
		{name: "local", cfg: Config{Provider: "local", BaseURL: "http://localhost:11434/v1"}, ok: true},
		{name: "unsupported", cfg: Config{Provider: "carrier-pigeon", APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.ok {
				require.NoError(t, err)
				assert.NotNil(t, client)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	fast := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	boom := errors.New("boom")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{name: "succeeds first try", failures: 0, wantCalls: 1},
		{name: "succeeds after retries", failures: 2, err: boom, wantCalls: 3},
		{name: "exhausts attempts", failures: 5, err: boom, wantCalls: 3, wantErr: ErrMaxRetries},
		{
			name:      "stops on non-retryable",
			failures:  5,
			err:       &RetryableError{Err: boom, Retryable: false},
			wantCalls: 1,
			wantErr:   boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			}, fast)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error { return errors.New("fail") },
		RetryOptions{MaxAttempts: 3, InitialDelay: time.Second})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: fmt.Errorf("call: %w", ErrRateLimit), want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "marked retryable", err: &RetryableError{Err: ErrBackendUnavailable, Retryable: true}, want: true},
		{name: "marked permanent", err: &RetryableError{Err: ErrInvalidResponse}, want: false},
		{name: "plain", err: ErrUnknownLabel, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not read transcript", ErrEmptyTranscript)
	assert.Equal(t, "could not read transcript: empty transcript", err.Error())
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "could not read transcript", userErr.UserMessage)

	assert.Equal(t, "plain", NewUserError("plain", nil).Error())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible", "turns", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"turns":3`)

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.Error(t, err)

	assert.Same(t, slog.Default(), OrDefault(nil))
	assert.Same(t, logger, OrDefault(logger))
}

func TestSetupLogger(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	var buf bytes.Buffer
	logger, err := SetupLogger(&buf, "warn", "console")
	require.NoError(t, err)
	assert.Same(t, logger, slog.Default())

	slog.Info("quiet")
	slog.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "level=WARN")

	_, err = SetupLogger(&buf, "verbose", "console")
	assert.Error(t, err)
	_, err = SetupLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

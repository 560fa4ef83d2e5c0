package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// ReadAll reads r to EOF, returning early with ErrInputCancelled when ctx is
// canceled. A read abandoned that way keeps running until r returns.
func ReadAll(ctx context.Context, r io.Reader) (string, error) {
	type result struct {
		err   error
		value []byte
	}
	resultCh := make(chan result, 1)

	go func() {
		value, err := io.ReadAll(r)
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return string(res.value), nil
	}
}

// ReadTranscript loads a transcript from path, or from stdin when path is "-".
func ReadTranscript(ctx context.Context, path string, stdin io.Reader) (string, error) {
	if path == "-" {
		return ReadAll(ctx, stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript %s: %w", path, err)
	}
	return string(data), nil
}

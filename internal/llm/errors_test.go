package llm

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeoutErr implements net.Error with Timeout() true.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o wait" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, Classify(nil, "llama3.2:3b"))
}

func TestClassifyTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"deadline exceeded", context.DeadlineExceeded, ErrTimedOut},
		{"net timeout", timeoutErr{}, ErrTimedOut},
		{"timeout in message", errors.New("request timeout exceeded"), ErrTimedOut},
		{"timed out in message", errors.New("operation timed out"), ErrTimedOut},
		{"econnrefused", syscall.ECONNREFUSED, ErrUnavailable},
		{"connection refused in message", errors.New("dial tcp 127.0.0.1:11434: connection refused"), ErrUnavailable},
		{"404 status", errors.New("unexpected status code: 404"), ErrModelNotFound},
		{"not found in message", errors.New(`model "llama9" not found`), ErrModelNotFound},
		{"anything else", errors.New("unexpected EOF"), ErrService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, "llama3.2:3b")
			require.Error(t, got)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyWrappedConnRefused(t *testing.T) {
	err := fmt.Errorf("post generate: %w", syscall.ECONNREFUSED)
	assert.ErrorIs(t, Classify(err, "m"), ErrUnavailable)
}

func TestClassifyKeepsUpstreamMessage(t *testing.T) {
	got := Classify(errors.New("unexpected EOF"), "m")
	assert.Contains(t, got.Error(), "unexpected EOF")
}

func TestClassifyModelNotFoundNamesModel(t *testing.T) {
	got := Classify(errors.New("status 404"), "llama3.2:3b")
	assert.Contains(t, got.Error(), "llama3.2:3b")
}

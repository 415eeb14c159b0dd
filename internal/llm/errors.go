package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
)

// Failure categories for generation calls. Check with errors.Is; the wrapped
// message always carries the upstream error for diagnostics.
var (
	// ErrUnavailable indicates the generation service refused the connection.
	ErrUnavailable = errors.New("ai service unavailable")

	// ErrModelNotFound indicates the configured model is not installed on
	// the generation service.
	ErrModelNotFound = errors.New("model not found")

	// ErrTimedOut indicates the generation call exceeded its deadline.
	ErrTimedOut = errors.New("ai service timed out")

	// ErrService covers all other transport and protocol failures.
	ErrService = errors.New("ai service error")
)

// Classify maps a raw generation error onto the failure taxonomy.
func Classify(err error, model string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return fmt.Errorf("%w: %v", ErrTimedOut, err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case strings.Contains(msg, "404") || strings.Contains(msg, "not found"):
		return fmt.Errorf("%w: model %q: %v", ErrModelNotFound, model, err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return fmt.Errorf("%w: %v", ErrTimedOut, err)
	default:
		return fmt.Errorf("%w: %v", ErrService, err)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}

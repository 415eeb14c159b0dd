package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Sentinel errors for log store operations. Check with errors.Is.
var (
	// ErrNotFound indicates the referenced log id does not exist.
	ErrNotFound = errors.New("log not found")

	// ErrConflict indicates a SurrealDB transaction conflict on concurrent
	// writes to the same record. Callers may retry.
	ErrConflict = errors.New("transaction conflict")
)

// wrapQueryError maps known SurrealDB query errors onto sentinels.
func wrapQueryError(err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		if strings.Contains(queryErr.Message, "Transaction conflict") {
			return fmt.Errorf("%w: %s", ErrConflict, queryErr.Message)
		}
	}

	return err
}

package blogs

import (
	"errors"
	"fmt"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
)

// The three failure kinds every operation in this package reports.
// Callers branch on these with errors.Is; handlers map them to HTTP status.
var (
	// ErrValidation means the caller supplied malformed input. Never retried.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means a referenced id did not exist when the operation ran.
	ErrNotFound = errors.New("not found")
	// ErrPersistence means a read or atomic batch failed for infrastructure
	// reasons. The coordinator never retries these itself: a batch whose
	// atomicity guarantee was violated could partially apply, and retrying
	// without idempotency keys would be unsafe. Retry policy belongs to the
	// caller.
	ErrPersistence = errors.New("persistence failure")
)

// storeErr converts a docstore error into the package taxonomy.
func storeErr(op string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrPersistence)
}

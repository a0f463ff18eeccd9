package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers unknown document ids and queries against an empty
	// registry.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput covers blank queries and misconfigured parameters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyInput is returned when ingestion produces no indexable text.
	ErrEmptyInput = errors.New("empty input")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

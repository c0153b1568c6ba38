package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrModelCall is a transport-level model failure: network, auth,
	// rate limit, open circuit.
	ErrModelCall = errors.New("model call failed")
	// ErrModelOutput is a semantic model failure: the call succeeded but the
	// content is not JSON or violates the requested schema.
	ErrModelOutput = errors.New("model output malformed")
	ErrTemporary   = errors.New("temporary failure")
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

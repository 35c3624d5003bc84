// ABOUTME: Error kinds raised by the retrieval engine
// ABOUTME: Validation errors surface, provider errors degrade, store errors propagate after one fallback
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError via errors.Is
	ErrValidation = errors.New("validation failed")
	// ErrProvider matches any *ProviderError via errors.Is
	ErrProvider = errors.New("embedding provider failed")
	// ErrStore matches any *StoreError via errors.Is
	ErrStore = errors.New("item store failed")

	ErrStoreRequired = errors.New("item store is required")
	ErrNoGateway     = errors.New("no embedding gateway configured")
)

// ValidationError reports malformed caller input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationErrorf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ProviderError wraps a failure of the embedding backend
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// StoreError wraps a failure of the item store
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("item store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

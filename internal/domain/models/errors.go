package models

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable covers network failures, timeouts, 5xx and 429.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderMalformed means the payload did not have the expected shape.
	ErrProviderMalformed = errors.New("provider returned malformed data")
	// ErrTickerNotFound means every provider agreed the ticker does not exist.
	ErrTickerNotFound = errors.New("ticker not found")
	// ErrAllProvidersFailed means no usable data and no cached fallback.
	ErrAllProvidersFailed = errors.New("all providers failed")
	ErrInvalidTicker      = errors.New("invalid ticker")
)

// ProviderError is the only error type provider adapters return. Kind is one
// of ErrProviderUnavailable, ErrProviderMalformed or ErrTickerNotFound.
type ProviderError struct {
	Provider ProviderID
	Op       string
	Kind     error
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewProviderError builds a ProviderError of the given kind.
func NewProviderError(provider ProviderID, op string, kind error, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Kind: kind, Status: status, Err: err}
}

// ErrorKind returns the taxonomy label of err for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidTicker):
		return "invalid_ticker"
	case errors.Is(err, ErrTickerNotFound):
		return "not_found"
	case errors.Is(err, ErrProviderMalformed):
		return "malformed"
	case errors.Is(err, ErrAllProvidersFailed):
		return "all_failed"
	case errors.Is(err, ErrProviderUnavailable):
		return "unavailable"
	default:
		return "internal"
	}
}

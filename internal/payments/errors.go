package payments

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials means provider API keys are not configured.
	ErrMissingCredentials = errors.New("payment provider credentials not configured")
	// ErrMissingSecret means the secret needed to verify a callback is
	// not configured. Verification never silently defaults.
	ErrMissingSecret = errors.New("callback verification secret not configured")
	// ErrSignatureMismatch means the callback signature did not verify.
	// Callers must reject the callback without mutating any order.
	ErrSignatureMismatch = errors.New("signature verification failed")
	// ErrValidation means required request fields are missing or invalid.
	ErrValidation = errors.New("missing or invalid payment fields")
)

// ProviderError carries the upstream payment API's failure status and
// response body.
type ProviderError struct {
	Status int
	Detail string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider returned %d: %s", e.Status, e.Detail)
}

package messaging

import (
	"errors"
	"fmt"
)

var ErrProviderNotConfigured = errors.New("messaging provider not configured")

// ProviderError is returned when a provider answers with a non-2xx status
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

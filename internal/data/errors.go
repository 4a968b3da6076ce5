package data

import (
	"errors"
	"fmt"
	"net/http"
)

// ProviderError represents an error from an external data provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// IsNotFound reports whether err is a provider 404, e.g. a location without
// building-insights coverage.
func IsNotFound(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.StatusCode == http.StatusNotFound
}

// statusError maps a non-2xx response onto a ProviderError.
func statusError(provider string, resp *http.Response, body string) *ProviderError {
	pe := &ProviderError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Code:       "API_ERROR",
		Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		pe.Code = "INVALID_API_KEY"
		pe.Message = "Invalid API key or insufficient permissions"
	case http.StatusNotFound:
		pe.Code = "NOT_FOUND"
		pe.Message = "No data for this location"
	case http.StatusTooManyRequests:
		pe.RetryAfter = resp.Header.Get("Retry-After")
		pe.Code = "RATE_LIMIT_EXCEEDED"
		pe.Message = fmt.Sprintf("Rate limit exceeded. Retry after: %s", pe.RetryAfter)
	}
	if body != "" {
		pe.Message = pe.Message + ": " + body
	}
	return pe
}

package ai

import (
	"fmt"
	"strings"
)

// ErrMissingKey is returned by providers when none of their API key env vars is set.
type ErrMissingKey struct {
	Provider string
	Vars     []string
}

func (e ErrMissingKey) Error() string {
	return fmt.Sprintf("missing API key for %s: set %s", e.Provider, strings.Join(e.Vars, " or "))
}

// EnvVars lists the environment variables that would have satisfied the provider.
func (e ErrMissingKey) EnvVars() []string {
	return e.Vars
}

// HTTPError is a non-2xx answer from a provider endpoint.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %d\n%s", e.Method, e.URL, e.StatusCode, e.Body)
}

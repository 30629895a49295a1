package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies estimation failures into the coarse categories shown to the user.
type ErrorKind string

const (
	KindMissingCredential   ErrorKind = "MissingCredential"
	KindEmptyResponse       ErrorKind = "EmptyResponse"
	KindMalformedJSON       ErrorKind = "MalformedJSON"
	KindMalformedSchema     ErrorKind = "MalformedSchema"
	KindProviderUnavailable ErrorKind = "ProviderUnavailable"
)

// EstimationError is the only error type the estimation client hands back to callers.
// Error() returns the human-readable message; the underlying failure stays reachable via Unwrap.
type EstimationError struct {
	Kind     ErrorKind
	Provider string // "gemini", "openai", "anthropic"
	Cause    error
}

func (e *EstimationError) Error() string {
	switch e.Kind {
	case KindMissingCredential:
		var missing interface{ EnvVars() []string }
		if errors.As(e.Cause, &missing) {
			return fmt.Sprintf("API key for provider %s is not set (%s).",
				e.Provider, strings.Join(missing.EnvVars(), " or "))
		}
		return fmt.Sprintf("API key for provider %s is not set.", e.Provider)
	case KindEmptyResponse:
		return "The AI returned an empty response. Please try again."
	case KindMalformedJSON:
		return "Failed to parse the AI's response. The data format might be incorrect."
	case KindMalformedSchema:
		return "Received malformed data from the AI."
	default:
		return "Could not fetch the cost estimate. The AI service may be temporarily unavailable."
	}
}

func (e *EstimationError) Unwrap() error {
	return e.Cause
}

// Detail returns the message plus the underlying cause, for logs.
func (e *EstimationError) Detail() string {
	if e.Cause == nil {
		return e.Error()
	}
	return fmt.Sprintf("%s (%s: %v)", e.Error(), e.Kind, e.Cause)
}

// KindOf reports the kind of err. Anything that is not an EstimationError counts as ProviderUnavailable.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var estErr *EstimationError
	if errors.As(err, &estErr) {
		return estErr.Kind
	}
	return KindProviderUnavailable
}

// AIGenerationError represents AI provider call failures
type AIGenerationError struct {
	Provider string
	Input    string // truncated input for context
	Cause    error
}

func (e *AIGenerationError) Error() string {
	truncatedInput := e.Input
	if len(truncatedInput) > 100 {
		truncatedInput = truncatedInput[:100] + "..."
	}
	return fmt.Sprintf("AI generation failed using %s provider for input '%s': %v",
		e.Provider, truncatedInput, e.Cause)
}

func (e *AIGenerationError) Unwrap() error {
	return e.Cause
}

// JSONValidationError represents a payload that could not be decoded
type JSONValidationError struct {
	Context string // "estimate response", "request body", etc.
	Content string // truncated JSON content
	Cause   error
}

func (e *JSONValidationError) Error() string {
	truncatedContent := e.Content
	if len(truncatedContent) > 100 {
		truncatedContent = truncatedContent[:100] + "..."
	}
	return fmt.Sprintf("JSON validation failed for %s: %v\nContent: %s",
		e.Context, e.Cause, truncatedContent)
}

func (e *JSONValidationError) Unwrap() error {
	return e.Cause
}

// FieldViolation describes one field that failed schema validation.
type FieldViolation struct {
	Field  string
	Reason string
}

// SchemaViolationError lists every field of a decoded payload that broke the response contract
type SchemaViolationError struct {
	Violations []FieldViolation
}

func (e *SchemaViolationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Reason)
	}
	return "response does not match schema: " + strings.Join(parts, "; ")
}

// Fields returns the names of the offending fields in validation order.
func (e *SchemaViolationError) Fields() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Field)
	}
	return out
}

// ProviderError represents cloud provider operation errors
type ProviderError struct {
	Provider  string // "aws"
	Operation string // "load-config", "get-caller-identity", "get-products"
	Resource  string
	Cause     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error during %s operation on resource '%s': %v",
		e.Provider, e.Operation, e.Resource, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// InputValidationError represents user input validation errors
type InputValidationError struct {
	InputType string // "instanceType", "operatingSystem", "ebsVolumeType", ...
	Value     string
	Expected  string // description of expected format
	Cause     error
}

func (e *InputValidationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("invalid %s value '%s' (expected: %s)",
			e.InputType, e.Value, e.Expected)
	}
	if e.Expected != "" {
		return fmt.Sprintf("invalid %s value '%s' (expected: %s): %v",
			e.InputType, e.Value, e.Expected, e.Cause)
	}
	return fmt.Sprintf("invalid %s value '%s': %v",
		e.InputType, e.Value, e.Cause)
}

func (e *InputValidationError) Unwrap() error {
	return e.Cause
}

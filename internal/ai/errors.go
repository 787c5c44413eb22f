package ai

import "fmt"

// ProviderError is returned when the provider answers with a non-success status.
type ProviderError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s response status %d: %s", e.Op, e.StatusCode, e.Body)
}

// ParseError is returned when a provider payload, or structured text the model
// was asked to produce, does not match the expected shape.
type ParseError struct {
	What string
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s failed: %v", e.What, e.Err)
	}
	return fmt.Sprintf("parse %s failed", e.What)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

package emergency

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredential indicates no generator API key is configured.
	ErrNoCredential = errors.New("no generator credential configured")

	// ErrGeneratorDisabled indicates the generator handle failed to initialize
	// and will not be retried.
	ErrGeneratorDisabled = errors.New("generator disabled")

	// ErrEmptyResponse indicates the generator returned no text.
	ErrEmptyResponse = errors.New("empty generator response")

	// ErrMalformedResponse indicates the generator text is missing a required field.
	ErrMalformedResponse = errors.New("malformed generator response")
)

// ErrorKind classifies why the generation path could not produce a recommendation
type ErrorKind string

const (
	KindUnavailable ErrorKind = "unavailable"
	KindCall        ErrorKind = "call"
	KindMalformed   ErrorKind = "malformed"
)

// GenerationError carries the kind of failure and its cause
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(kind ErrorKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}

// kindOf extracts the ErrorKind from err. Errors that did not come from the
// generation path are treated as call failures.
func kindOf(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return KindCall
}

// fallbackPolicy maps each failure kind to whether the deterministic classifier
// replaces the generation result. Unknown kinds also fall back.
var fallbackPolicy = map[ErrorKind]bool{
	KindUnavailable: true,
	KindCall:        true,
	KindMalformed:   true,
}

// shouldFallback decides whether a generation attempt must be replaced by the
// deterministic classifier.
func shouldFallback(err error) bool {
	if err == nil {
		return false
	}
	if fallback, ok := fallbackPolicy[kindOf(err)]; ok {
		return fallback
	}
	return true
}

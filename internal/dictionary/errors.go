package dictionary

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when the query text contains no usable
// characters after normalization.
var ErrEmptyQuery = errors.New("no usable text in the query")

// ErrUsageUnsupported is returned by backends that do not expose
// request quota information.
var ErrUsageUnsupported = errors.New("usage reporting is not supported by this backend")

// UnsupportedPairError indicates the requested language pair is absent
// from the backend's catalog. The backend is never contacted in this case.
type UnsupportedPairError struct {
	Source string
	Target string
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("language pair %s-%s is not supported", e.Source, e.Target)
}

// TransportError indicates a network failure or timeout while talking
// to a dictionary service.
type TransportError struct {
	Server string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Server == "" {
		return fmt.Sprintf("transport failure: %v", e.Err)
	}
	return fmt.Sprintf("transport failure [%s]: %v", e.Server, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthError indicates an invalid, blocked or exhausted credential.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authorization failure (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("authorization failure (status %d): %s", e.StatusCode, e.Message)
}

// MalformedResponseError indicates the service returned a payload that
// could not be parsed into an article or a catalog.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed service response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

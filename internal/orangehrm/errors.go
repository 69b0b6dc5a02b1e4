package orangehrm

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is on a TokenError or RequestError.
var (
	ErrInvalidGrantType  = errors.New("invalid grant type")
	ErrTransportFailure  = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrUnauthenticated   = errors.New("no access token available")
)

// TokenError is returned by FetchToken.
type TokenError struct {
	Kind error
	Err  error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch token: %v", e.Kind)
	}
	return fmt.Sprintf("fetch token: %v: %v", e.Kind, e.Err)
}

func (e *TokenError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// RequestError is returned by Do and its method wrappers.
type RequestError struct {
	Kind   error
	Method Method
	Path   string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Method, e.Path, e.Kind, e.Err)
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

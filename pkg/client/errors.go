package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNoFetchAccessToken is returned when a protected path is requested
	// without a configured credential or token callback.
	ErrNoFetchAccessToken = errors.New("no fetchAccessToken provided")
	// ErrNoAccessToken is returned when the token callback yields an empty value.
	ErrNoAccessToken = errors.New("no access token")
	// ErrInvalidAccessToken is returned when the token callback yields a value
	// that is not shaped like a JWT.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrConflictingAuth is returned by New when more than one auth strategy is set.
	ErrConflictingAuth = errors.New("only one of APIKey, Demo or FetchAccessToken may be set")
)

// ErrorKind classifies authentication failures.
type ErrorKind string

const (
	// KindConfiguration means the client was built without what the strategy needs.
	KindConfiguration ErrorKind = "configuration"
	// KindCredential means the credential source returned an unusable value.
	KindCredential ErrorKind = "credential"
)

// AuthError is returned from every verb method when authentication could not
// be established. No request reaches the transport in that case.
type AuthError struct {
	Kind ErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("savvycal: %s", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func configurationError(err error) error { return &AuthError{Kind: KindConfiguration, Err: err} }
func credentialError(err error) error    { return &AuthError{Kind: KindCredential, Err: err} }

// IsAuthError reports whether err (or anything it wraps) is an *AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// APIError describes a non-2xx response. Verb methods expose it on
// Response.Error; typed operations return it as an error.
type APIError struct {
	Status  int
	Message string
	Body    json.RawMessage
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("savvycal: api error (%d)", e.Status)
	}
	return fmt.Sprintf("savvycal: api error (%d): %s", e.Status, e.Message)
}

func decodeAPIError(status int, statusText string, data []byte) *APIError {
	apiErr := &APIError{Status: status}
	if len(data) == 0 {
		apiErr.Message = statusText
		return apiErr
	}
	if json.Valid(data) {
		apiErr.Body = json.RawMessage(data)
	}
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	switch {
	case payload.Message != "":
		apiErr.Message = payload.Message
	case len(payload.Error) > 0:
		apiErr.Message = flattenMessage(payload.Error)
	case len(payload.Errors) > 0:
		apiErr.Message = flattenMessage(payload.Errors)
	}
	if apiErr.Message == "" {
		apiErr.Message = statusText
	}
	return apiErr
}

// flattenMessage accepts either a string or an object/array and returns
// something readable for Error().
func flattenMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Detail != "" {
			return obj.Detail
		}
	}
	return string(raw)
}

func statusText(code int) string {
	if t := http.StatusText(code); t != "" {
		return fmt.Sprintf("%d %s", code, t)
	}
	return fmt.Sprintf("%d", code)
}

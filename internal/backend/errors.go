package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure so callers can branch on the category
// instead of matching message text.
type Kind int

const (
	// KindNetwork covers transport-level failures: the backend was never reached
	// or the connection broke before a response arrived.
	KindNetwork Kind = iota
	// KindAuth covers rejected credentials and expired or missing tokens.
	KindAuth
	// KindValidation covers requests rejected before or by the server with
	// field-scoped messages.
	KindValidation
	// KindNotFound covers lookups of unknown resource ids.
	KindNotFound
	// KindProvider covers Google Fit OAuth and sync exchange failures.
	KindProvider
	// KindUnexpected covers everything else the backend can return.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindProvider:
		return "provider"
	default:
		return "unexpected"
	}
}

// Error is the single error type surfaced by the client. Message always
// holds human-readable text; Fields is populated only for validation
// failures with per-field messages to attach to form inputs.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Fields     map[string][]string
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is a backend Error of the given kind
func IsKind(err error, k Kind) bool {
	var be *Error
	if !errors.As(err, &be) {
		return false
	}
	return be.Kind == k
}

func netErr(cause error, fallback string) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: fallback,
		cause:   cause,
	}
}

func validationErr(message string, fields map[string][]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Fields:  fields,
	}
}

func providerErr(message string) *Error {
	return &Error{
		Kind:    KindProvider,
		Message: message,
	}
}

// errorBody is the error envelope the backend emits on non-2xx responses.
// Field errors arrive as "errors" (per-field lists) alongside or instead
// of the top-level message.
type errorBody struct {
	Message string              `json:"message"`
	Detail  string              `json:"detail"`
	Errors  map[string][]string `json:"errors"`
}

// httpError maps a non-2xx response to a tagged Error. The server message
// is preferred; fallback is used when the body carries none.
func httpError(statusCode int, body []byte, fallback string, oauth bool) *Error {
	var eb errorBody
	// A non-JSON body is tolerated; the fallback message is used instead.
	_ = json.Unmarshal(body, &eb)

	msg := eb.Message
	if msg == "" {
		msg = eb.Detail
	}
	if msg == "" {
		msg = fallback
	}

	e := &Error{
		StatusCode: statusCode,
		Message:    msg,
		Fields:     eb.Errors,
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Kind = KindAuth
	case statusCode == http.StatusNotFound:
		e.Kind = KindNotFound
	case oauth:
		e.Kind = KindProvider
	case statusCode == http.StatusBadRequest || statusCode == http.StatusRequestEntityTooLarge:
		e.Kind = KindValidation
	default:
		e.Kind = KindUnexpected
	}

	return e
}

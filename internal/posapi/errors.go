package posapi

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

// Kind classifies an API failure so call sites can pattern-match on the
// category instead of probing an untyped error blob.
type Kind string

const (
	// KindValidation is a 422 response; Message carries the server's text verbatim.
	KindValidation Kind = "validation"
	// KindNotFound is a 404 response.
	KindNotFound Kind = "notFound"
	// KindNetwork is a transport-level failure: the request never produced a response.
	KindNetwork Kind = "network"
	// KindUnknown is any other non-2xx response.
	KindUnknown Kind = "unknown"
)

// Error is the tagged result type for every failed API call.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, 0 for network failures
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Status > 0 {
		msg = http.StatusText(e.Status)
	}
	if e.Status > 0 {
		return fmt.Sprintf("pos api: %s (%d): %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("pos api: %s: %s", e.Kind, msg)
}

// AsError extracts an *Error from err, or nil when err is of another type.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// ValidationMessage returns the server's validation message when err is a
// 422 failure, or "" otherwise. The terminal surfaces these verbatim.
func ValidationMessage(err error) string {
	if apiErr := AsError(err); apiErr != nil && apiErr.Kind == KindValidation {
		return apiErr.Message
	}
	return ""
}

// statusError builds an *Error from a non-2xx response. Message stays empty
// when the server supplied none, so callers can distinguish a real server
// message from a bare status.
func statusError(status int, message string) *Error {
	kind := KindUnknown
	switch status {
	case http.StatusUnprocessableEntity:
		kind = KindValidation
	case http.StatusNotFound:
		kind = KindNotFound
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

// networkError builds an *Error from a transport failure.
func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error()}
}

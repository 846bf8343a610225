package departures

import (
	"errors"
	"net/http"
)

// Kind classifies a lookup failure.
type Kind int

const (
	InvalidInput Kind = iota + 1
	ConfigurationError
	UpstreamError
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case ConfigurationError:
		return "configuration_error"
	case UpstreamError:
		return "upstream_error"
	default:
		return "unknown"
	}
}

// HTTPStatus is the response code the proxy answers with for this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidInput:
		return http.StatusBadRequest
	case UpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed lookup failure. Message is safe to show to end users.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

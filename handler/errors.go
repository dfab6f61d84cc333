package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with an HTTP status, a machine-readable code and
// optional details rendered into the JSON error body.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e HTTPError) Unwrap() error { return e.Err }

// NewHTTPError creates an HTTPError whose message defaults to the status text.
func NewHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

// Wrap returns a copy of e carrying err as its cause and message.
func (e HTTPError) Wrap(err error) HTTPError {
	e.Err = err
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

// WithDetails returns a copy of e with details attached.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

var (
	ErrBadRequest            = NewHTTPError(http.StatusBadRequest, "bad_request")
	ErrNotFound              = NewHTTPError(http.StatusNotFound, "not_found")
	ErrConflict              = NewHTTPError(http.StatusConflict, "conflict")
	ErrRequestEntityTooLarge = NewHTTPError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrUnsupportedMediaType  = NewHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type")
	ErrUnprocessableEntity   = NewHTTPError(http.StatusUnprocessableEntity, "validation_error")
	ErrInternalServerError   = NewHTTPError(http.StatusInternalServerError, "internal_error")
	ErrBadGateway            = NewHTTPError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable    = NewHTTPError(http.StatusServiceUnavailable, "service_unavailable")
)

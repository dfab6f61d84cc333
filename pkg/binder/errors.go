package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParseQuery   = errors.New("failed to parse query parameters")
	ErrFailedToParsePath    = errors.New("failed to parse path parameters")
	ErrFailedToParseForm    = errors.New("failed to parse multipart form")
	ErrMissingFile          = errors.New("missing file field")
	ErrBodyTooLarge         = errors.New("request body too large")

	// ErrBinderNotApplicable is returned by binders that have nothing to bind
	// for the request. Callers skip such binders.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)

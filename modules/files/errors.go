package files

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/recyclebin/handler"
	"github.com/dmitrymomot/recyclebin/pkg/binder"
	"github.com/dmitrymomot/recyclebin/pkg/blobstore"
	"github.com/dmitrymomot/recyclebin/pkg/lifecycle"
	"github.com/dmitrymomot/recyclebin/pkg/summary"
)

var (
	ErrPartialPurge       = handler.NewHTTPError(http.StatusInternalServerError, "partial_purge")
	ErrNotificationFailed = handler.NewHTTPError(http.StatusBadGateway, "notification_failed")
	ErrIOFailure          = handler.NewHTTPError(http.StatusInternalServerError, "io_failure")
)

// MapError translates storage, lifecycle, summary and binding errors into
// HTTP errors. Storage causes are never echoed to the client.
func MapError(err error) (handler.HTTPError, bool) {
	switch {
	case errors.Is(err, lifecycle.ErrPartialPurge):
		return ErrPartialPurge.WithDetails(map[string]any{
			"failed": lifecycle.FailedEntries(err),
		}), true
	case errors.Is(err, summary.ErrNotificationFailed):
		return ErrNotificationFailed, true
	case errors.Is(err, blobstore.ErrNotFound):
		return handler.ErrNotFound.Wrap(err), true
	case errors.Is(err, lifecycle.ErrConflict):
		return handler.ErrConflict.Wrap(err), true
	case errors.Is(err, blobstore.ErrTooLarge), errors.Is(err, binder.ErrBodyTooLarge):
		return handler.ErrRequestEntityTooLarge, true
	case errors.Is(err, blobstore.ErrInvalidName),
		errors.Is(err, blobstore.ErrUnknownNamespace),
		errors.Is(err, blobstore.ErrIsDirectory):
		return handler.ErrUnprocessableEntity.Wrap(err), true
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return handler.ErrUnsupportedMediaType.Wrap(err), true
	case errors.Is(err, binder.ErrMissingFile),
		errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseQuery),
		errors.Is(err, binder.ErrFailedToParsePath),
		errors.Is(err, binder.ErrFailedToParseForm):
		return handler.ErrBadRequest.Wrap(err), true
	case errors.Is(err, blobstore.ErrIO):
		return ErrIOFailure, true
	}
	return handler.HTTPError{}, false
}

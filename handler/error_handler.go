package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/recyclebin/pkg/logger"
)

// ErrorMapper translates domain errors into HTTPError values.
// It returns false when it does not recognise err.
type ErrorMapper func(err error) (HTTPError, bool)

// MapError runs mappers in order and returns the first match wrapped around err.
// Unmatched errors are returned unchanged.
func MapError(err error, mappers ...ErrorMapper) error {
	if err == nil {
		return nil
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	for _, m := range mappers {
		if he, ok := m(err); ok {
			if he.Err == nil {
				he.Err = err
			}
			return he
		}
	}
	return err
}

// NewErrorHandler returns an ErrorHandler that maps err with mappers, logs it
// (client errors at WARN, server errors at ERROR) and renders a JSON error body.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler[Context] {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(ctx Context, err error) {
		err = MapError(err, mappers...)
		resp := JSONError(err).(*jsonResponse)

		level := slog.LevelError
		if resp.status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		r := ctx.Request()
		log.LogAttrs(r.Context(), level, "request error",
			logger.RequestID(middleware.GetReqID(r.Context())),
			logger.Error(err),
			slog.Int("status_code", resp.status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(renderErr))
		}
	}
}

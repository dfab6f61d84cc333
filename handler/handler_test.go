package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/recyclebin/handler"
	"github.com/dmitrymomot/recyclebin/pkg/binder"
)

type createRequest struct {
	Name  string `json:"name"`
	Limit int    `query:"limit"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var body handler.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("binds json and query", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(ctx handler.Context, req createRequest) handler.Response {
			return handler.JSON(map[string]any{"name": req.Name, "limit": req.Limit})
		}, handler.WithBinders[handler.Context, createRequest](binder.JSON(), binder.Query()))

		r := httptest.NewRequest(http.MethodPost, "/?limit=7", strings.NewReader(`{"name":"a.txt"}`))
		r.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		data := body.Data.(map[string]any)
		assert.Equal(t, "a.txt", data["name"])
		assert.EqualValues(t, 7, data["limit"])
	})

	t.Run("binder error goes to error handler", func(t *testing.T) {
		t.Parallel()

		var got error
		h := handler.Wrap(func(ctx handler.Context, req createRequest) handler.Response {
			t.Fatal("handler must not run")
			return nil
		},
			handler.WithBinders[handler.Context, createRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, createRequest](func(ctx handler.Context, err error) {
				got = err
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		r.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, got, binder.ErrFailedToParseJSON)
	})

	t.Run("not applicable binder is skipped", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(ctx handler.Context, req createRequest) handler.Response {
			return handler.Empty()
		}, handler.WithBinders[handler.Context, createRequest](binder.Path(nil)))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		var got error
		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			return nil
		}, handler.WithErrorHandler[handler.Context, struct{}](func(ctx handler.Context, err error) {
			got = err
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, got, handler.ErrNilResponse)
	})

	t.Run("default error handler renders json", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			return handler.JSONError(handler.ErrNotFound)
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeBody(t, rec).Error.Code)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()

		var order []string
		mk := func(name string) handler.Decorator[handler.Context, struct{}] {
			return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
				return func(ctx handler.Context, req struct{}) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			order = append(order, "handler")
			return handler.Empty()
		}, handler.WithDecorators(mk("first"), mk("second")))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("context exposes request", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			assert.Equal(t, "/ping", ctx.Request().URL.Path)
			assert.NoError(t, ctx.Err())
			return handler.Empty()
		})
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	})

	t.Run("render error goes to error handler", func(t *testing.T) {
		t.Parallel()

		renderErr := errors.New("boom")
		var got error
		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			return failingResponse{err: renderErr}
		}, handler.WithErrorHandler[handler.Context, struct{}](func(ctx handler.Context, err error) {
			got = err
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, got, renderErr)
	})
}

type failingResponse struct{ err error }

func (f failingResponse) Render(http.ResponseWriter, *http.Request) error { return f.err }

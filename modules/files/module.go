package files

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/recyclebin/handler"
	"github.com/dmitrymomot/recyclebin/pkg/binder"
	"github.com/dmitrymomot/recyclebin/pkg/summary"
	svcfiles "github.com/dmitrymomot/recyclebin/svc/files"
)

// multipartOverhead is added to the upload limit to leave room for part headers.
const multipartOverhead = 1 << 20

// Service is the subset of svc/files.Service served over HTTP.
type Service interface {
	Upload(ctx context.Context, name string, r io.Reader) (svcfiles.Uploaded, error)
	List(ctx context.Context, storeID string) ([]string, error)
	Download(ctx context.Context, storeID, name string) (io.ReadCloser, error)
	SoftDelete(ctx context.Context, name string) (string, error)
	Restore(ctx context.Context, name string) (string, error)
	Purge(ctx context.Context) (int, error)
	Sizes(ctx context.Context) (svcfiles.Sizes, error)
	RequestSummaryNotification(ctx context.Context, address string) (summary.Summary, error)
}

// Module serves the files API.
type Module struct {
	svc          Service
	maxUpload    int64
	logger       *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
}

// Option configures Module.
type Option func(*Module)

// WithMaxUploadSize caps the request body of uploads. Zero disables the cap.
func WithMaxUploadSize(n int64) Option {
	return func(m *Module) { m.maxUpload = n }
}

// WithErrorHandler replaces the default JSON error handler.
// It takes precedence over WithLogger regardless of option order.
func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(m *Module) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithLogger sets the logger of the default error handler.
func WithLogger(l *slog.Logger) Option {
	return func(m *Module) { m.logger = l }
}

// NewModule creates the files API over svc.
func NewModule(svc Service, opts ...Option) *Module {
	m := &Module{svc: svc}
	for _, opt := range opts {
		opt(m)
	}
	if m.errorHandler == nil {
		m.errorHandler = handler.NewErrorHandler(m.logger, MapError)
	}
	return m
}

type listRequest struct {
	Store string `query:"store"`
}

type entryRequest struct {
	Store string `path:"store"`
	Name  string `path:"name"`
}

type summaryRequest struct {
	Email string `json:"email"`
}

type nameResponse struct {
	Name string `json:"name"`
}

type purgeResponse struct {
	Removed int `json:"removed"`
}

// Handle returns the routes of the files API.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/files", handler.Wrap(m.upload,
		handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler),
	))
	r.Get("/files", handler.Wrap(m.list,
		handler.WithBinders[handler.Context, listRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, listRequest](m.errorHandler),
	))
	r.Get("/files/{store}/{name}", handler.Wrap(m.download,
		handler.WithBinders[handler.Context, entryRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, entryRequest](m.errorHandler),
	))
	r.Delete("/files/{name}", handler.Wrap(m.softDelete,
		handler.WithBinders[handler.Context, entryRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, entryRequest](m.errorHandler),
	))
	r.Post("/recycle/{name}/restore", handler.Wrap(m.restore,
		handler.WithBinders[handler.Context, entryRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, entryRequest](m.errorHandler),
	))
	r.Delete("/recycle", handler.Wrap(m.purge,
		handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler),
	))
	r.Get("/sizes", handler.Wrap(m.sizes,
		handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler),
	))
	r.Post("/summary", handler.Wrap(m.summary,
		handler.WithBinders[handler.Context, summaryRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, summaryRequest](m.errorHandler),
	))

	return r
}

func (m *Module) upload(ctx handler.Context, _ struct{}) handler.Response {
	req := ctx.Request()
	if m.maxUpload > 0 {
		req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, m.maxUpload+multipartOverhead)
	}

	var up svcfiles.Uploaded
	err := binder.StreamFile(req, "file", func(r io.Reader, h binder.FileHeader) error {
		var err error
		up, err = m.svc.Upload(ctx, h.Filename, r)
		return err
	})
	if err != nil {
		return m.fail(ctx, err)
	}
	return handler.JSON(up, handler.WithJSONStatus(http.StatusCreated))
}

func (m *Module) list(ctx handler.Context, req listRequest) handler.Response {
	names, err := m.svc.List(ctx, req.Store)
	if err != nil {
		return m.fail(ctx, err)
	}
	return handler.JSON(names, handler.WithJSONMeta(map[string]any{"count": len(names)}))
}

func (m *Module) download(ctx handler.Context, req entryRequest) handler.Response {
	rc, err := m.svc.Download(ctx, req.Store, req.Name)
	if err != nil {
		return m.fail(ctx, err)
	}
	return handler.Stream(rc, req.Name)
}

func (m *Module) softDelete(ctx handler.Context, req entryRequest) handler.Response {
	name, err := m.svc.SoftDelete(ctx, req.Name)
	if err != nil {
		return m.fail(ctx, err)
	}
	return handler.JSON(nameResponse{Name: name})
}

func (m *Module) restore(ctx handler.Context, req entryRequest) handler.Response {
	name, err := m.svc.Restore(ctx, req.Name)
	if err != nil {
		return m.fail(ctx, err)
	}
	return handler.JSON(nameResponse{Name: name})
}

func (m *Module) purge(ctx handler.Context, _ struct{}) handler.Response {
	n, err := m.svc.Purge(ctx)
	if err != nil {
		return m.fail(ctx, err)
	}
	return handler.JSON(purgeResponse{Removed: n})
}

func (m *Module) sizes(ctx handler.Context, _ struct{}) handler.Response {
	s, err := m.svc.Sizes(ctx)
	if err != nil {
		return m.fail(ctx, err)
	}
	return handler.JSON(s)
}

func (m *Module) summary(ctx handler.Context, req summaryRequest) handler.Response {
	s, err := m.svc.RequestSummaryNotification(ctx, req.Email)
	if err != nil {
		return m.fail(ctx, err)
	}
	return handler.JSON(s, handler.WithJSONStatus(http.StatusAccepted))
}

// failure defers rendering to the module's error handler so failures are
// mapped and logged in one place.
type failure struct {
	ctx    handler.Context
	err    error
	render handler.ErrorHandler[handler.Context]
}

func (f failure) Render(http.ResponseWriter, *http.Request) error {
	f.render(f.ctx, f.err)
	return nil
}

func (m *Module) fail(ctx handler.Context, err error) handler.Response {
	return failure{ctx: ctx, err: err, render: m.errorHandler}
}

package files

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/recyclebin/pkg/httpserver"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures the application router.
type RouterOptions struct {
	Files  Mountable
	Checks map[string]httpserver.CheckFunc
	Logger *slog.Logger
}

// Router creates the application router: health endpoints plus the files API
// mounted at the root.
//
// Example:
//
//	svc, _ := files.NewFromConfig(ctx, cfg.Files, sender, log)
//	r := filesmod.Router(filesmod.RouterOptions{
//		Files:  filesmod.NewModule(svc, filesmod.WithLogger(log)),
//		Checks: svc.Checks(),
//		Logger: log,
//	})
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.LivenessHandler())
	r.Get("/ready", httpserver.ReadinessHandler(opts.Logger, opts.Checks))

	if opts.Files != nil {
		r.Mount("/", opts.Files.Handle())
	}
	return r
}

package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrymomot/recyclebin/pkg/logger"
)

// CheckFunc reports whether a dependency is usable.
type CheckFunc func(ctx context.Context) error

// LivenessHandler always answers 200 with body "ALIVE".
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	}
}

// ReadinessHandler runs every named check with the request context.
// It answers 200 "READY" when all pass and 503 "NOT_READY: <names>" otherwise.
func ReadinessHandler(log *slog.Logger, checks map[string]CheckFunc) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		var failed []string
		for _, name := range names {
			if err := checks[name](r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed",
					logger.Component(name),
					logger.Error(err),
				)
				failed = append(failed, name)
			}
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(failed) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY: " + strings.Join(failed, ", ")))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}

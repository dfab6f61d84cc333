// Package httpserver runs an http.Handler with graceful shutdown and slog logging.
//
// Run binds the listener first, so address errors surface immediately as ErrStart,
// then serves until the context is cancelled, SIGINT/SIGTERM arrives or Shutdown
// is called. In-flight requests get the configured shutdown timeout to finish.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler back the /health and /ready probes:
//
//	r.Get("/ready", httpserver.ReadinessHandler(log, map[string]httpserver.CheckFunc{
//		"active":  checkActive,
//		"recycle": checkRecycle,
//	}))
package httpserver

// Package logger builds *slog.Logger instances from functional options.
//
// New picks a text or JSON handler, applies static attributes and wraps the handler
// with LogHandlerDecorator, which runs registered ContextExtractor callbacks on every
// emitted record (for example to attach the HTTP request id).
//
// Attribute helpers in attr.go keep key names consistent across packages:
//
//	log.WarnContext(ctx, "skipping entry during size aggregation",
//		logger.Store("recycle"),
//		logger.Entry(name),
//		logger.Error(err),
//	)
//
// Typical setup:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "recyclebin"),
//		logger.WithLevelName(cfg.LogLevel),
//	)
//	logger.SetAsDefault(log)
package logger

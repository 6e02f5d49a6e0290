// Package logger builds slog loggers for the blog service and provides
// attribute helpers for consistent keys across packages.
//
//	log := logger.New(
//		logger.WithDevelopment("blog"),
//		logger.WithContextExtractors(requestIDFromContext),
//	)
//	log.Info("server started", logger.Component("server"), slog.String("addr", addr))
//
// Attribute helpers return an empty slog.Attr for empty input, so
// logger.Error(nil) can be passed without a nil check.
package logger

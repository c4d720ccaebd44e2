// Package logger builds *slog.Logger instances from functional options and
// injects request-scoped attributes pulled from context.Context.
//
// New picks a JSON or text slog.Handler, applies static attributes and wraps
// the handler with a decorator running every registered ContextExtractor
// on each record.
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV"), "httpkit"),
//		logger.WithContextExtractors(requestIDExtractor),
//	)
//
// Nop returns a logger that discards everything; packages use it as the
// default when no logger is supplied.
package logger

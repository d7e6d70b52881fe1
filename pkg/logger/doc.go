// Package logger builds *slog.Logger instances with functional options and
// provides attribute constructors for the keys used across the service.
//
//	log := logger.New(
//		logger.WithEnvironment("development", "depselect"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "category selected", logger.CategoryID("cat-tech"))
//
// Context extractors run on every record, so request-scoped values such as the
// request ID are picked up without passing loggers around per request.
package logger

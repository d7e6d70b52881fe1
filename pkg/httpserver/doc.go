// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run blocks until its context is cancelled, SIGINT or SIGTERM is received,
// or Shutdown is called, then drains connections within the shutdown
// timeout. Options configure timeouts, middleware and lifecycle hooks;
// NewFromConfig builds a server from an env-loaded Config.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler serve health probes.
package httpserver

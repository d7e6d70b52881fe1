// Package metrics defines the Prometheus collectors of the service.
//
// Collectors live on a private registry so tests and multiple instances do not
// collide on the global one. Producers are instrumented by wrapping:
//
//	m := metrics.New()
//	producer = metrics.Instrument(m, "subcategories", producer)
//	router.Handle("/metrics", m.Handler())
package metrics

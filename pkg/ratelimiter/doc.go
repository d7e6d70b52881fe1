// Package ratelimiter implements an in-memory token bucket limiter and an
// HTTP middleware that applies it per client.
package ratelimiter

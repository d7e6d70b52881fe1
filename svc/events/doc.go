// Package events defines selection domain events and their publishers:
// an in-process Bus, a Redis pub/sub publisher and a fan-out combinator.
package events

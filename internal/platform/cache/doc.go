// Package cache provides the read-through product cache: a Redis-backed
// implementation, a circuit-breaker decorator that sheds load when Redis is
// unhealthy, and a no-op cache for deployments without Redis.
package cache

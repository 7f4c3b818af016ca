// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Read-path metrics
	IncCacheHit(key string)
	IncCacheMiss(key string)

	// Write-path metrics
	IncUserCreated()
	IncCreateFailed()

	// Event pipeline metrics
	IncEventPublished(status string) // status: "success" or "dropped"

	// Idempotency guard metrics
	IncIdempotentReplay()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

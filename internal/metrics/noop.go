package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCacheHit is a no-op.
func (n *NoopRecorder) IncCacheHit(path string) {}

// IncCacheMiss is a no-op.
func (n *NoopRecorder) IncCacheMiss(path string) {}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncCreateFailed is a no-op.
func (n *NoopRecorder) IncCreateFailed() {}

// IncEventPublished is a no-op.
func (n *NoopRecorder) IncEventPublished(status string) {}

// IncIdempotentReplay is a no-op.
func (n *NoopRecorder) IncIdempotentReplay() {}

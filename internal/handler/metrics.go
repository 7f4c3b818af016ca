package handler

import (
	"fmt"
	"net/http"

	"github.com/usersvc/usersvc/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "usersvc_cache_hits_total{path=\"users_all\"} %d\n", snap.AllUsersCacheHits)
	writeMetric(w, "usersvc_cache_hits_total{path=\"user_by_id\"} %d\n", snap.UserByIDCacheHits)
	writeMetric(w, "usersvc_cache_misses_total{path=\"users_all\"} %d\n", snap.AllUsersCacheMisses)
	writeMetric(w, "usersvc_cache_misses_total{path=\"user_by_id\"} %d\n", snap.UserByIDCacheMisses)

	writeMetric(w, "usersvc_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "usersvc_creates_failed_total %d\n", snap.CreatesFailed)

	writeMetric(w, "usersvc_events_published_total{status=\"success\"} %d\n", snap.EventsPublished)
	writeMetric(w, "usersvc_events_published_total{status=\"dropped\"} %d\n", snap.EventsDropped)

	writeMetric(w, "usersvc_idempotent_replays_total %d\n", snap.IdempotentReplays)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/usersvc/usersvc/internal/cache"
	"github.com/usersvc/usersvc/internal/metrics"
)

// IdempotencyKeyHeader is the header carrying the client-supplied token.
const IdempotencyKeyHeader = "Idempotency-Key"

// ReplayStore holds previously produced responses keyed by token.
// Implementations must never overwrite a live entry; the first stored
// response owns the slot until its TTL expires.
type ReplayStore interface {
	GetStoredResponse(ctx context.Context, token string) (*cache.StoredResponse, error)
	StoreResponse(ctx context.Context, token string, resp *cache.StoredResponse) error
}

// IdempotencyConfig configures the Idempotency middleware.
type IdempotencyConfig struct {
	Logger  *slog.Logger
	Store   ReplayStore
	Metrics metrics.Recorder
}

// recordingWriter tees the response body so a conclusive response can be
// stored for replay after the handler returns.
type recordingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// Idempotency gates a mutating endpoint behind the Idempotency-Key header.
//
// Missing key: the request is rejected with 400 and the handler never runs.
// Stored response: it is replayed verbatim with its original status and
// the handler never runs, so a retried create cannot produce a second
// record. Fresh key: the handler runs and its response is stored (SET NX,
// 1h TTL) before returning, unless it was a server error.
//
// Two concurrent requests with the same fresh key may both execute; the
// first response to land owns the stored slot and later retries converge
// to it. A failing replay store degrades to pass-through.
func Idempotency(cfg IdempotencyConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	logger := cfg.Logger.With("component", "middleware.idempotency")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(IdempotencyKeyHeader)
			if token == "" {
				writeEnvelope(w, http.StatusBadRequest, map[string]any{
					"success": false,
					"message": "Idempotency-Key header required",
				})
				return
			}

			stored, err := cfg.Store.GetStoredResponse(r.Context(), token)
			if err == nil {
				cfg.Metrics.IncIdempotentReplay()
				logger.Info("replaying stored response",
					"request_id", GetRequestID(r.Context()),
					"status", stored.Status,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(stored.Status)
				w.Write(stored.Body)
				return
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				// Degrade to pass-through; a duplicate execution window is
				// preferable to rejecting the request.
				logger.Warn("replay store unavailable", "error", err)
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// Server errors are retryable and must not poison the key.
			if rec.status >= http.StatusInternalServerError {
				return
			}

			resp := &cache.StoredResponse{
				Status: rec.status,
				Body:   json.RawMessage(rec.body.Bytes()),
			}
			if err := cfg.Store.StoreResponse(r.Context(), token, resp); err != nil {
				logger.Warn("failed to store response", "error", err)
			}
		})
	}
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

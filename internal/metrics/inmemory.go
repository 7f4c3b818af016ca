package metrics

import "sync/atomic"

// Cache path labels used by the service.
const (
	CachePathAllUsers = "users_all"
	CachePathUserByID = "user_by_id"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	AllUsersCacheHits   uint64
	AllUsersCacheMisses uint64
	UserByIDCacheHits   uint64
	UserByIDCacheMisses uint64
	UsersCreated        uint64
	CreatesFailed       uint64
	EventsPublished     uint64
	EventsDropped       uint64
	IdempotentReplays   uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	allUsersCacheHits   uint64
	allUsersCacheMisses uint64
	userByIDCacheHits   uint64
	userByIDCacheMisses uint64
	usersCreated        uint64
	createsFailed       uint64
	eventsPublished     uint64
	eventsDropped       uint64
	idempotentReplays   uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		AllUsersCacheHits:   atomic.LoadUint64(&m.allUsersCacheHits),
		AllUsersCacheMisses: atomic.LoadUint64(&m.allUsersCacheMisses),
		UserByIDCacheHits:   atomic.LoadUint64(&m.userByIDCacheHits),
		UserByIDCacheMisses: atomic.LoadUint64(&m.userByIDCacheMisses),
		UsersCreated:        atomic.LoadUint64(&m.usersCreated),
		CreatesFailed:       atomic.LoadUint64(&m.createsFailed),
		EventsPublished:     atomic.LoadUint64(&m.eventsPublished),
		EventsDropped:       atomic.LoadUint64(&m.eventsDropped),
		IdempotentReplays:   atomic.LoadUint64(&m.idempotentReplays),
	}
}

// IncCacheHit increments the hit counter for a read path.
func (m *InMemoryRecorder) IncCacheHit(path string) {
	switch path {
	case CachePathAllUsers:
		atomic.AddUint64(&m.allUsersCacheHits, 1)
	case CachePathUserByID:
		atomic.AddUint64(&m.userByIDCacheHits, 1)
	}
}

// IncCacheMiss increments the miss counter for a read path.
func (m *InMemoryRecorder) IncCacheMiss(path string) {
	switch path {
	case CachePathAllUsers:
		atomic.AddUint64(&m.allUsersCacheMisses, 1)
	case CachePathUserByID:
		atomic.AddUint64(&m.userByIDCacheMisses, 1)
	}
}

// IncUserCreated increments the created-user counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncCreateFailed increments the failed-create counter.
func (m *InMemoryRecorder) IncCreateFailed() {
	atomic.AddUint64(&m.createsFailed, 1)
}

// IncEventPublished increments the event counter for a publish outcome.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.eventsPublished, 1)
	case "dropped":
		atomic.AddUint64(&m.eventsDropped, 1)
	}
}

// IncIdempotentReplay increments the replayed-response counter.
func (m *InMemoryRecorder) IncIdempotentReplay() {
	atomic.AddUint64(&m.idempotentReplays, 1)
}

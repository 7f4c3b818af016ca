// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/usersvc/usersvc/internal/cache"
	"github.com/usersvc/usersvc/internal/metrics"
	"github.com/usersvc/usersvc/internal/model"
	"github.com/usersvc/usersvc/internal/repository"
)

// Service errors.
var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
	ErrUserNotFound  = errors.New("user not found")
)

// UserStore is the durable store capability the service depends on.
// CreateUser must be transactional: on error nothing is persisted.
type UserStore interface {
	CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// UserCache is the cache capability. All methods may fail without
// affecting correctness; the store stays the source of truth.
type UserCache interface {
	GetAllUsers(ctx context.Context) ([]*model.User, error)
	SetAllUsers(ctx context.Context, users []*model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
	InvalidateUser(ctx context.Context, id string) error
}

// EventPublisher emits domain events. Errors are reported back so the
// service can log them; they never fail the originating request.
type EventPublisher interface {
	PublishUserCreated(ctx context.Context, user *model.User) error
}

// UserService orchestrates the store, cache, and publisher with the
// commit-then-emit-then-invalidate ordering.
type UserService struct {
	store     UserStore
	cache     UserCache
	publisher EventPublisher
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, userCache UserCache, publisher EventPublisher, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:     store,
		cache:     userCache,
		publisher: publisher,
		metrics:   recorder,
		logger:    logger.With("component", "service.user"),
	}
}

// Create validates the input, persists the record transactionally, and
// only after the commit succeeds emits the USER_CREATED event and
// invalidates the collection and per-id cache keys. A failed commit leaves
// caches untouched and emits nothing. Publisher and cache failures are
// logged and never surface to the caller; the store is the only subsystem
// whose write failure fails the request.
func (s *UserService) Create(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.store.CreateUser(ctx, input)
	if err != nil {
		s.metrics.IncCreateFailed()
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()

	// Side effects run strictly after the commit, on this same path.
	if err := s.publisher.PublishUserCreated(ctx, user); err != nil {
		s.logger.Warn("event dropped",
			"event", model.EventUserCreated,
			"user_id", user.ID,
			"error", err,
		)
		s.metrics.IncEventPublished("dropped")
	} else {
		s.metrics.IncEventPublished("success")
	}

	if err := s.cache.InvalidateUser(ctx, user.ID); err != nil {
		// Stale entries now live until their TTL; operators watch for this.
		s.logger.Warn("cache invalidation failed",
			"user_id", user.ID,
			"error", err,
		)
	}

	return user, nil
}

// GetAll returns all users, read-through via the users:all key. Cache
// errors degrade to a miss; empty result sets are cached like any other.
func (s *UserService) GetAll(ctx context.Context) ([]*model.User, error) {
	users, err := s.cache.GetAllUsers(ctx)
	if err == nil {
		s.metrics.IncCacheHit(metrics.CachePathAllUsers)
		return users, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache read failed", "key", cache.AllUsersKey, "error", err)
	}
	s.metrics.IncCacheMiss(metrics.CachePathAllUsers)

	users, err = s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	if err := s.cache.SetAllUsers(ctx, users); err != nil {
		s.logger.Warn("cache fill failed", "key", cache.AllUsersKey, "error", err)
	}

	return users, nil
}

// GetByID returns a single user, read-through via the users:id:<id> key.
// A missing record returns ErrUserNotFound and is never cached, so a
// later create for that id is visible on the next read.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.cache.GetUser(ctx, id)
	if err == nil {
		s.metrics.IncCacheHit(metrics.CachePathUserByID)
		return user, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache read failed", "key", cache.UserKey(id), "error", err)
	}
	s.metrics.IncCacheMiss(metrics.CachePathUserByID)

	user, err = s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.cache.SetUser(ctx, user); err != nil {
		s.logger.Warn("cache fill failed", "key", cache.UserKey(id), "error", err)
	}

	return user, nil
}

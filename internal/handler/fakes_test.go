package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/usersvc/usersvc/internal/cache"
	"github.com/usersvc/usersvc/internal/metrics"
	"github.com/usersvc/usersvc/internal/model"
	"github.com/usersvc/usersvc/internal/repository"
	"github.com/usersvc/usersvc/internal/service"
)

// In-memory capability fakes used to exercise handlers through a real
// UserService without Postgres, Redis, or a broker.

type fakeStore struct {
	users     []*model.User
	nextID    int
	createErr error
	listCalls int
}

func (f *fakeStore) CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	user := &model.User{
		ID:    fmt.Sprintf("9f1c2d3e-0000-4000-8000-%012d", f.nextID),
		Name:  input.Name,
		Email: input.Email,
	}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	f.listCalls++
	return append([]*model.User(nil), f.users...), nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeCache struct {
	all    []*model.User
	hasAll bool
	byID   map[string]*model.User
}

func newFakeCache() *fakeCache {
	return &fakeCache{byID: make(map[string]*model.User)}
}

func (f *fakeCache) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	if !f.hasAll {
		return nil, cache.ErrCacheMiss
	}
	return f.all, nil
}

func (f *fakeCache) SetAllUsers(ctx context.Context, users []*model.User) error {
	f.all = users
	f.hasAll = true
	return nil
}

func (f *fakeCache) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return user, nil
}

func (f *fakeCache) SetUser(ctx context.Context, user *model.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeCache) InvalidateUser(ctx context.Context, id string) error {
	f.all = nil
	f.hasAll = false
	delete(f.byID, id)
	return nil
}

type fakePublisher struct {
	published []*model.User
}

func (f *fakePublisher) PublishUserCreated(ctx context.Context, user *model.User) error {
	f.published = append(f.published, user)
	return nil
}

type fakeReplayStore struct {
	responses map[string]*cache.StoredResponse
}

func newFakeReplayStore() *fakeReplayStore {
	return &fakeReplayStore{responses: make(map[string]*cache.StoredResponse)}
}

func (f *fakeReplayStore) GetStoredResponse(ctx context.Context, token string) (*cache.StoredResponse, error) {
	resp, ok := f.responses[token]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return resp, nil
}

func (f *fakeReplayStore) StoreResponse(ctx context.Context, token string, resp *cache.StoredResponse) error {
	if _, ok := f.responses[token]; ok {
		return nil
	}
	f.responses[token] = resp
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	store  *fakeStore
	cache  *fakeCache
	pub    *fakePublisher
	replay *fakeReplayStore
	users  *UserHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := &fakeStore{}
	c := newFakeCache()
	pub := &fakePublisher{}
	logger := testLogger()
	svc := service.NewUserService(store, c, pub, metrics.NewInMemory(), logger)

	return &testEnv{
		store:  store,
		cache:  c,
		pub:    pub,
		replay: newFakeReplayStore(),
		users:  NewUserHandler(svc, logger),
	}
}

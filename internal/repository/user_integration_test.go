//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/usersvc/usersvc/internal/model"
	"github.com/usersvc/usersvc/internal/testutil"
)

func newUserTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()

	ctx := context.Background()
	databaseURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("failed to acquire DB lock: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if err := testutil.ResetUsersSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("failed to reset users schema: %v", err)
	}

	return ctx, repo
}

func TestIntegrationUserRepository_CreateUser(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user, err := repo.CreateUser(ctx, model.CreateUserInput{Name: "A", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if user.ID == "" {
		t.Error("expected store-assigned id")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected store-assigned created_at")
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if retrieved.Email != "a@x.com" {
		t.Errorf("Email mismatch: got %q, want %q", retrieved.Email, "a@x.com")
	}
}

func TestIntegrationUserRepository_CreateUser_ConstraintViolationPersistsNothing(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	_, err := repo.CreateUser(ctx, model.CreateUserInput{Name: "", Email: "a@x.com"})
	if err == nil {
		t.Fatal("expected check constraint violation")
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("aborted create must persist nothing, found %d rows", len(users))
	}
}

func TestIntegrationUserRepository_ListUsers_Empty(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if users == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(users) != 0 {
		t.Errorf("expected no users, got %d", len(users))
	}
}

func TestIntegrationUserRepository_ListUsers_Ordered(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	first, err := repo.CreateUser(ctx, model.CreateUserInput{Name: "A", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	second, err := repo.CreateUser(ctx, model.CreateUserInput{Name: "B", Email: "b@x.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != first.ID || users[1].ID != second.ID {
		t.Error("users must be ordered by creation time")
	}
}

func TestIntegrationUserRepository_GetUserByID_NotFound(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	_, err := repo.GetUserByID(ctx, "9f1c2d3e-0000-4000-8000-000000000099")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestIntegrationUserRepository_GetUserByID_MalformedID(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	_, err := repo.GetUserByID(ctx, "not-a-uuid")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("malformed ids must read as not-found, got %v", err)
	}
}

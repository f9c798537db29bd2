package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"roomly/internal/users/repository"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// Mock repository for testing
type mockUserRepository struct {
	createFunc         func(ctx context.Context, user *model.User) error
	findByIDFunc       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
	findByIDsFunc      func(ctx context.Context, ids []string) ([]*model.User, error)
	findIDsFunc        func(ctx context.Context, usernamePattern string) ([]string, error)
	listFunc           func(ctx context.Context, skip, limit int64) ([]*model.User, error)
	countFunc          func(ctx context.Context) (int64, error)
	setFrozenFunc      func(ctx context.Context, id string, frozen bool) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "64b5f0a1c2d3e4f5a6b7c8da"
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return []*model.User{}, nil
}

func (m *mockUserRepository) FindIDs(ctx context.Context, usernamePattern string) ([]string, error) {
	if m.findIDsFunc != nil {
		return m.findIDsFunc(ctx, usernamePattern)
	}
	return []string{}, nil
}

func (m *mockUserRepository) List(ctx context.Context, skip, limit int64) ([]*model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, skip, limit)
	}
	return []*model.User{}, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockUserRepository) SetFrozen(ctx context.Context, id string, frozen bool) error {
	if m.setFrozenFunc != nil {
		return m.setFrozenFunc(ctx, id, frozen)
	}
	return nil
}

func newTestService(repo *mockUserRepository) UserService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewUserService(repo, cfg)
}

func TestRegister_HashesPassword(t *testing.T) {
	var stored *model.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "64b5f0a1c2d3e4f5a6b7c8da"
			stored = user
			return nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Password: "correct horse battery",
		Nickname: "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.PasswordHash == "" || stored.PasswordHash == "correct horse battery" {
		t.Fatal("password must be stored as a hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse battery")); err != nil {
		t.Errorf("stored hash must verify against the original password: %v", err)
	}

	payload, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("failed to marshal user: %v", err)
	}
	if strings.Contains(string(payload), stored.PasswordHash) {
		t.Error("serialized user must not expose the password hash")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "64b5f0a1c2d3e4f5a6b7c8da", Username: username}, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Password: "correct horse battery",
	})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got: %v", err)
	}
}

func TestRegister_Invalid(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	tests := []struct {
		name string
		req  *RegisterRequest
	}{
		{"missing username", &RegisterRequest{Password: "correct horse battery"}},
		{"short username", &RegisterRequest{Username: "a", Password: "correct horse battery"}},
		{"missing password", &RegisterRequest{Username: "alice"}},
		{"short password", &RegisterRequest{Username: "alice", Password: "short"}},
		{"bad email", &RegisterRequest{Username: "alice", Password: "correct horse battery", Email: "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			if !apperrors.IsCode(err, apperrors.CodeValidation) {
				t.Errorf("expected validation error, got: %v", err)
			}
		})
	}
}

func TestFindByID_MapsErrors(t *testing.T) {
	repo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			if id == "bad" {
				return nil, repository.ErrInvalidID
			}
			return nil, repository.ErrNotFound
		},
	}
	svc := newTestService(repo)

	_, err := svc.FindByID(context.Background(), "64b5f0a1c2d3e4f5a6b7c8ff")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found, got: %v", err)
	}

	_, err = svc.FindByID(context.Background(), "bad")
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected invalid input, got: %v", err)
	}
}

func TestSummaries_Redacted(t *testing.T) {
	repo := &mockUserRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) ([]*model.User, error) {
			return []*model.User{
				{
					ID:           "64b5f0a1c2d3e4f5a6b7c8da",
					Username:     "alice",
					Nickname:     "Alice",
					PasswordHash: "$2a$10$secret",
				},
			}, nil
		},
	}
	svc := newTestService(repo)

	summaries, err := svc.Summaries(context.Background(), []string{"64b5f0a1c2d3e4f5a6b7c8da"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, ok := summaries["64b5f0a1c2d3e4f5a6b7c8da"]
	if !ok {
		t.Fatal("expected summary keyed by user id")
	}
	if summary.Username != "alice" || summary.Nickname != "Alice" {
		t.Errorf("unexpected summary: %+v", summary)
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("failed to marshal summary: %v", err)
	}
	if strings.Contains(string(payload), "secret") || strings.Contains(string(payload), "password") {
		t.Errorf("summary must carry no credential material: %s", payload)
	}
}

func TestSetFrozen(t *testing.T) {
	frozenState := false
	repo := &mockUserRepository{
		setFrozenFunc: func(ctx context.Context, id string, frozen bool) error {
			frozenState = frozen
			return nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "alice", IsFrozen: frozenState}, nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.SetFrozen(context.Background(), "64b5f0a1c2d3e4f5a6b7c8da", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user.IsFrozen {
		t.Error("expected frozen user")
	}

	repo.setFrozenFunc = func(ctx context.Context, id string, frozen bool) error {
		return repository.ErrNotFound
	}
	_, err = svc.SetFrozen(context.Background(), "64b5f0a1c2d3e4f5a6b7c8ff", true)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found, got: %v", err)
	}
}

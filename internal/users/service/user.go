package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"roomly/internal/users/repository"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"
)

// RegisterRequest carries the data for a new account. The plaintext password
// never reaches the model; it is hashed here and discarded.
type RegisterRequest struct {
	Username string   `json:"username" validate:"required,min=2,max=50"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Nickname string   `json:"nickname,omitempty" validate:"omitempty,max=50"`
	Email    string   `json:"email,omitempty" validate:"omitempty,email"`
	IsAdmin  bool     `json:"is_admin"`
	Roles    []string `json:"roles,omitempty"`
}

// UserService manages the user directory. It also backs the booking
// scheduler's read-only owner lookups.
type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, pageNo, pageSize int) ([]*model.User, int64, error)
	SetFrozen(ctx context.Context, id string, frozen bool) (*model.User, error)

	FindByID(ctx context.Context, id string) (*model.User, error)
	FindIDs(ctx context.Context, usernameLike string) ([]string, error)
	Summaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error)
}

type userService struct {
	repo     repository.UserRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewUserService(repo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	req.Username = sanitizer.TrimAndNormalize(req.Username)
	req.Nickname = sanitizer.TrimAndNormalize(req.Nickname)
	req.Email = sanitizer.TrimAndNormalize(req.Email)

	if err := s.validate.Struct(req); err != nil {
		s.cfg.Log.Warn("User registration validation failed", "error", err)
		return nil, apperrors.Validation("Invalid registration request", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check username", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("A user with this username already exists").
			WithDetails(map[string]any{"username": req.Username})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Nickname:     req.Nickname,
		Email:        req.Email,
		IsAdmin:      req.IsAdmin,
		Roles:        req.Roles,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered",
		"user_id", user.ID,
		"username", user.Username,
		"is_admin", user.IsAdmin,
	)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.FindByID(ctx, id)
}

func (s *userService) List(ctx context.Context, pageNo, pageSize int) ([]*model.User, int64, error) {
	if pageNo < 1 {
		return nil, 0, apperrors.Validation("page_no must be 1 or greater", nil)
	}
	pageSize = s.cfg.NormalizePageSize(pageSize)

	skip := int64(pageNo-1) * int64(pageSize)

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count users", err)
	}

	users, err := s.repo.List(ctx, skip, int64(pageSize))
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list users", err)
	}

	return users, count, nil
}

func (s *userService) SetFrozen(ctx context.Context, id string, frozen bool) (*model.User, error) {
	if err := s.repo.SetFrozen(ctx, id, frozen); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFoundWithID("User", id)
		case errors.Is(err, repository.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid user ID format")
		default:
			return nil, apperrors.Internal("Failed to update user freeze state", err)
		}
	}

	s.cfg.Log.Info("User freeze state changed", "user_id", id, "frozen", frozen)
	return s.FindByID(ctx, id)
}

func (s *userService) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFoundWithID("User", id)
		case errors.Is(err, repository.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid user ID format")
		default:
			return nil, apperrors.Internal("Failed to find user", err)
		}
	}
	return user, nil
}

func (s *userService) FindIDs(ctx context.Context, usernameLike string) ([]string, error) {
	ids, err := s.repo.FindIDs(ctx, sanitizer.SearchTerm(usernameLike))
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve user filter", err)
	}
	return ids, nil
}

func (s *userService) Summaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error) {
	if len(ids) == 0 {
		return map[string]*model.UserSummary{}, nil
	}

	users, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("Failed to load user summaries", err)
	}

	summaries := make(map[string]*model.UserSummary, len(users))
	for _, user := range users {
		summaries[user.ID] = user.Summary()
	}
	return summaries, nil
}

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sarcoord/rescue-backend-go/internal/auth"
	"github.com/sarcoord/rescue-backend-go/internal/cache"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/notify"
	"github.com/sarcoord/rescue-backend-go/internal/repository"
)

// UserService handles business logic for console users
type UserService struct {
	repo *repository.UserRepository
	Shared
}

// NewUserService creates a new user service
func NewUserService(repo *repository.UserRepository, shared Shared) *UserService {
	return &UserService{repo: repo, Shared: shared.withDefaults("users")}
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return cache.Fetch(ctx, s.Cache, cache.UsersKey(), s.repo.List)
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user")
	}
	return u, nil
}

// Update changes the profile, role or active flag of a user
func (s *UserService) Update(ctx context.Context, id string, req models.UserUpdateRequest) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Role != nil {
		r, ok := auth.ParseRole(*req.Role)
		if !ok {
			return nil, invalid("unknown role %q", *req.Role)
		}
		u.Role = string(r)
	}
	if req.Active != nil {
		u.Active = *req.Active
	}

	if _, err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.changed(models.TableUsers, notify.OpUpdate, "", u.ID)
	s.Logger.Info("user updated", slog.String("user_id", u.ID), slog.String("role", u.Role), slog.Bool("active", u.Active))
	return u, nil
}

// SetLanguage stores the preferred interface language of a user
func (s *UserService) SetLanguage(ctx context.Context, id, lang string) (*models.User, error) {
	code, ok := SupportedLanguage(lang)
	if !ok {
		return nil, invalid("unsupported language %q", lang)
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Language = code
	if _, err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.changed(models.TableUsers, notify.OpUpdate, "", u.ID)
	return u, nil
}

// Count returns the number of users
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/models"
)

var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w-]+(\.[\w-]+)+$`)

type UserService struct {
	repo   domain.Repository
	cache  domain.ProjectionCache
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, cache domain.ProjectionCache, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)

	if err := validateUserFields(user.Name, user.Email); err != nil {
		return nil, err
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.cacheProjection(ctx, user)
	s.logger.Info().Int64("user_id", user.ID).Msg("User created")
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}

	if err := validateUserFields(user.Name, user.Email); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.cacheProjection(ctx, user)
	s.logger.Info().Int64("user_id", user.ID).Msg("User updated")
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, id)
	}
	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

func (s *UserService) cacheProjection(ctx context.Context, user *models.User) {
	if s.cache == nil {
		return
	}
	simple := user.Simple()
	if err := s.cache.SetUser(ctx, &simple); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to cache user projection")
	}
}

func validateUserFields(name, email string) error {
	if name == "" {
		return fmt.Errorf("%w: user name must not be blank", domain.ErrInvalidInput)
	}
	if email == "" {
		return fmt.Errorf("%w: email must not be blank", domain.ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: malformed email %q", domain.ErrInvalidInput, email)
	}
	return nil
}

package services

import (
	"context"
	"strings"

	apperrors "github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/common/validation"
	"github.com/architect/classroom-backend/internal/users/models"
	"github.com/architect/classroom-backend/internal/users/repository"
)

// ProfileService reads and edits the user's own profile fields. Engagement
// counters on the same row belong to the streak and XP engines, not here.
type ProfileService struct {
	users repository.UserRepository
}

func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Username  *string `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

func (s *ProfileService) Update(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		name := strings.TrimSpace(*update.Username)
		if err := validation.ValidateStringRange(name, 2, 50); err != nil {
			return nil, apperrors.Validation("invalid username", err.Error())
		}
		user.Username = name
	}
	if update.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*update.AvatarURL)
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

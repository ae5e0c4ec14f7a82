package services

import (
	"context"
	"errors"
	"time"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"
)

type ProfileInput struct {
	Phone     string          `json:"phone"`
	BirthDate *time.Time      `json:"birthDate"`
	Address   *models.Address `json:"address"`
}

type Profile struct {
	User *models.User     `json:"user"`
	Info *models.UserInfo `json:"info"`
}

type ProfileService struct {
	users     repository.UserRepository
	userInfos repository.UserInfoRepository
}

func NewProfileService(users repository.UserRepository, userInfos repository.UserInfoRepository) *ProfileService {
	return &ProfileService{users: users, userInfos: userInfos}
}

// info retourne les informations du profil, vides si jamais enregistrées
func (s *ProfileService) info(ctx context.Context, userID string) (*models.UserInfo, error) {
	info, err := s.userInfos.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.UserInfo{UserID: userID}, nil
	}
	return info, err
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info, err := s.info(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Info: info}, nil
}

// Update ne remplace que les champs fournis
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput) (*Profile, error) {
	info, err := s.info(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Phone != "" {
		info.Phone = in.Phone
	}
	if in.BirthDate != nil {
		if in.BirthDate.After(time.Now()) {
			return nil, ErrInvalidInput
		}
		info.BirthDate = in.BirthDate
	}
	if in.Address != nil {
		info.Address = *in.Address
	}
	if err := s.userInfos.Upsert(ctx, info); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

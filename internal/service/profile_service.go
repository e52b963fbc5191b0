package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"profile-api/internal/domain"
	"profile-api/internal/repository"
)

// ProfileService coordina reglas de negocio para perfiles.
type ProfileService struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
	cache    ProfileCache
	cacheTTL time.Duration
}

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrProfileInput     = errors.New("uid and email required")
	ErrProfileForbidden = errors.New("identity mismatch")
)

const defaultCacheTTL = 5 * time.Minute

// NewProfileService crea el servicio; cache nil desactiva el cacheo.
func NewProfileService(logger *zap.Logger, profiles repository.ProfileRepository, cache ProfileCache, cacheTTL time.Duration) *ProfileService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &ProfileService{
		logger:   logger,
		profiles: profiles,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

type CreateProfileInput struct {
	UserID      string
	Email       string
	DisplayName string
}

// CreateProfile registra (o reemplaza) los campos de identidad del perfil.
// El uid del cuerpo debe coincidir con la identidad resuelta por el gate.
func (s *ProfileService) CreateProfile(ctx context.Context, authUserID string, input CreateProfileInput) (domain.Profile, error) {
	if s.profiles == nil {
		return domain.Profile{}, errors.New("profile service not configured")
	}

	userID := strings.TrimSpace(input.UserID)
	email := strings.TrimSpace(input.Email)
	if userID == "" || email == "" {
		return domain.Profile{}, ErrProfileInput
	}
	if userID != authUserID {
		return domain.Profile{}, ErrProfileForbidden
	}

	profile, err := s.profiles.Upsert(ctx, userID, email, strings.TrimSpace(input.DisplayName))
	if err != nil {
		return domain.Profile{}, err
	}

	s.cacheSet(profile)
	return profile, nil
}

// GetProfile devuelve el perfil del usuario, desde cache si está vigente.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	if s.profiles == nil {
		return domain.Profile{}, errors.New("profile service not configured")
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(userID)
		if err != nil && s.logger != nil {
			s.logger.Warn("profile cache get failed", zap.Error(err), zap.String("user_id", userID))
		}
		if ok {
			return cached, nil
		}
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, ErrProfileNotFound
		}
		return domain.Profile{}, err
	}

	s.cacheSet(profile)
	return profile, nil
}

type UpdateProfileInput struct {
	FullName *string
	Gender   *string
	NickName *string
	Address  *string
	City     *string
	Country  *string
}

// UpdateProfile aplica los campos presentes del input sobre un perfil
// existente. Identidad (userId, email, displayName) queda intacta.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (domain.Profile, error) {
	if s.profiles == nil {
		return domain.Profile{}, errors.New("profile service not configured")
	}

	profile, err := s.profiles.UpdateAttributes(ctx, userID, repository.AttributePatch{
		FullName: input.FullName,
		Gender:   input.Gender,
		NickName: input.NickName,
		Address:  input.Address,
		City:     input.City,
		Country:  input.Country,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, ErrProfileNotFound
		}
		return domain.Profile{}, err
	}

	s.cacheSet(profile)
	return profile, nil
}

// cacheSet refresca la entrada tras cada escritura; errores de cache
// no interrumpen la operación.
func (s *ProfileService) cacheSet(profile domain.Profile) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(profile, s.cacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("profile cache set failed", zap.Error(err), zap.String("user_id", profile.UserID))
	}
}

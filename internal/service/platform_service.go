package service

import (
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/invportal/portfolio-backend/internal/apperrors"
	"github.com/invportal/portfolio-backend/internal/model"
	"github.com/invportal/portfolio-backend/internal/repository"
)

// PlatformService handles external platform master data. Platform API tokens
// are sealed with fernet before they reach the database and only opened when
// a client for that platform needs them.
type PlatformService struct {
	platformRepo *repository.PlatformRepository
	keys         []*fernet.Key
}

// NewPlatformService creates a new PlatformService. fernetKey may be empty
// when no platform uses an API token; sealing then reports an error.
func NewPlatformService(platformRepo *repository.PlatformRepository, fernetKey string) (*PlatformService, error) {
	var keys []*fernet.Key
	if fernetKey != "" {
		decoded, err := fernet.DecodeKeys(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode fernet key: %w", err)
		}
		keys = decoded
	}

	return &PlatformService{
		platformRepo: platformRepo,
		keys:         keys,
	}, nil
}

// GetAllPlatforms returns all external platforms. Tokens stay sealed.
func (s *PlatformService) GetAllPlatforms() ([]model.Platform, error) {
	return s.platformRepo.GetAllPlatforms()
}

// CreatePlatform stores a new external platform. A non-empty apiToken is
// sealed before it is persisted.
func (s *PlatformService) CreatePlatform(name, platformType, apiToken string) (model.Platform, error) {
	valid := false
	for _, t := range model.AllowedPlatformTypes {
		if t == platformType {
			valid = true
			break
		}
	}
	if !valid {
		return model.Platform{}, fmt.Errorf("%w: unknown platform type %q", apperrors.ErrMissingRequiredField, platformType)
	}

	sealed := ""
	if apiToken != "" {
		if len(s.keys) == 0 {
			return model.Platform{}, fmt.Errorf("%w: no fernet key configured", apperrors.ErrSealTokenFailed)
		}
		tok, err := fernet.EncryptAndSign([]byte(apiToken), s.keys[0])
		if err != nil {
			return model.Platform{}, fmt.Errorf("%w: %v", apperrors.ErrSealTokenFailed, err)
		}
		sealed = string(tok)
	}

	platform := model.Platform{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     platformType,
		APIToken: sealed,
	}

	if err := s.platformRepo.Insert(platform); err != nil {
		return model.Platform{}, err
	}

	return platform, nil
}

// EnsurePlatform returns the platform with the given name, creating it with
// the given type when it does not exist yet. Used at startup to guarantee the
// scheduled quote refresh has a pricing platform to attribute quotes to.
func (s *PlatformService) EnsurePlatform(name, platformType string) (model.Platform, error) {
	platform, err := s.platformRepo.GetByName(name)
	if err == nil {
		return platform, nil
	}

	return s.CreatePlatform(name, platformType, "")
}

// Token opens the sealed API token for a platform. Tokens do not expire;
// the zero TTL disables fernet's age check.
func (s *PlatformService) Token(p model.Platform) (string, error) {
	if p.APIToken == "" {
		return "", nil
	}
	if len(s.keys) == 0 {
		return "", fmt.Errorf("%w: no fernet key configured", apperrors.ErrOpenTokenFailed)
	}

	msg := fernet.VerifyAndDecrypt([]byte(p.APIToken), 0*time.Second, s.keys)
	if msg == nil {
		return "", apperrors.ErrOpenTokenFailed
	}

	return string(msg), nil
}

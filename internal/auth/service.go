package auth

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/frahmantamala/photoid-studio/internal"
	userDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/user"
	"github.com/frahmantamala/photoid-studio/internal/user"
)

type UserRepository interface {
	GetByNPK(npk string) (*userDatamodel.User, error)
	Update(npk string, dto user.UpdateUserDTO) (*userDatamodel.User, error)
}

// Service derives and verifies password hashes and authenticates
// operators against the user store. Plaintext passwords never outlive the
// call stack: they are not stored, logged, or embedded in errors.
type Service struct {
	users  UserRepository
	params Params
	logger *slog.Logger
}

func NewService(users UserRepository, params Params, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		params: params.normalized(),
		logger: logger,
	}
}

// HashPassword returns the storable salted-hash encoding for a plaintext.
func (s *Service) HashPassword(plaintext string) (string, error) {
	return hashPassword(plaintext, s.params)
}

// VerifyPassword checks a plaintext against a stored encoding. The error
// is non-nil only for corrupt stored data, never for a simple mismatch.
func (s *Service) VerifyPassword(plaintext, stored string) (bool, error) {
	return verifyPassword(plaintext, stored)
}

// Authenticate fetches the user by npk and verifies the password. On
// success it stamps last_access and returns the refreshed user. A wrong
// password and an unknown npk cost the same KDF work, so response timing
// does not separate the two probes.
func (s *Service) Authenticate(npk, plaintext string) (*userDatamodel.User, error) {
	u, err := s.users.GetByNPK(npk)
	if err != nil {
		if internal.IsCode(err, internal.ErrCodeUserNotFound) {
			s.burnDerivation(plaintext)
			s.logger.Warn("authentication failed, unknown npk", "npk", npk)
			return nil, fmt.Errorf("authenticate %s: %w", npk, internal.ErrUserNotFound)
		}
		return nil, err
	}

	if u.Password == "" {
		s.burnDerivation(plaintext)
		s.logger.Warn("authentication failed, no credential on record", "npk", npk)
		return nil, fmt.Errorf("authenticate %s: %w", npk, internal.ErrInvalidCredentials)
	}

	ok, err := verifyPassword(plaintext, u.Password)
	if err != nil {
		s.logger.Error("authentication failed, corrupt stored credential", "npk", npk)
		return nil, err
	}
	if !ok {
		s.logger.Warn("authentication failed, password mismatch", "npk", npk)
		return nil, fmt.Errorf("authenticate %s: %w", npk, internal.ErrInvalidCredentials)
	}

	now := time.Now()
	updated, err := s.users.Update(npk, user.UpdateUserDTO{LastAccess: &now})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user authenticated", "npk", npk, "role", updated.Role)
	return updated, nil
}

// burnDerivation performs one KDF derivation against a fixed salt so the
// failure paths that skip verification still take verification time.
func (s *Service) burnDerivation(plaintext string) {
	salt := make([]byte, s.params.SaltLength)
	pbkdf2.Key([]byte(plaintext), salt, s.params.Iterations, s.params.KeyLength, sha256.New)
}

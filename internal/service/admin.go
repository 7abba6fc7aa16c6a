package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// generatedPasswordBytes yields a 24 character password once encoded.
const generatedPasswordBytes = 18

// AdminService bootstraps back-office access.
type AdminService struct {
	adminRepo repository.AdminRepository
	username  string
	password  string
}

// NewAdminService creates a new AdminService. An empty password makes
// EnsureAdmin generate a random one.
func NewAdminService(adminRepo repository.AdminRepository, username, password string) *AdminService {
	return &AdminService{
		adminRepo: adminRepo,
		username:  username,
		password:  password,
	}
}

// EnsureAdmin creates the first administrator when none exists. A generated
// password is logged exactly once, here, and never stored in plain text.
func (s *AdminService) EnsureAdmin(ctx context.Context) (bool, error) {
	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	password := s.password
	generated := password == ""
	if generated {
		password, err = randomPassword()
		if err != nil {
			return false, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &domain.AdminUser{
		ID:           uuid.New().String(),
		Username:     s.username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}

	if generated {
		log.Printf("[ADMIN] created admin %q with generated password %s (set ADMIN_PASSWORD to choose one)", admin.Username, password)
	} else {
		log.Printf("[ADMIN] created admin %q", admin.Username)
	}

	return true, nil
}

func randomPassword() (string, error) {
	buf := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate admin password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

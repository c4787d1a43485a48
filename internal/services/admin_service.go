package services

import (
	"context"
	"fmt"
	"log"

	"pbm-backend/internal/auth"
	"pbm-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently ignores input past 72 bytes; truncate explicitly so hash
// and verify agree on the same prefix.
const maxBcryptLength = 72

type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	Count(ctx context.Context) (int, error)
}

type AdminService struct {
	admins AdminStore
	jwt    *auth.JWTManager
}

func NewAdminService(admins AdminStore, jwtManager *auth.JWTManager) *AdminService {
	return &AdminService{admins: admins, jwt: jwtManager}
}

func HashPassword(password string) (string, error) {
	raw := []byte(password)
	if len(raw) > maxBcryptLength {
		raw = raw[:maxBcryptLength]
	}
	hash, err := bcrypt.GenerateFromPassword(raw, bcrypt.DefaultCost)
	return string(hash), err
}

func verifyPassword(hash, password string) bool {
	raw := []byte(password)
	if len(raw) > maxBcryptLength {
		raw = raw[:maxBcryptLength]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), raw) == nil
}

// Login checks the credentials and issues a JWT for the back office.
func (s *AdminService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !admin.Active || !verifyPassword(admin.PasswordHash, password) {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(admin.Username, admin.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &models.LoginResponse{
		Token:    token,
		Username: admin.Username,
		Role:     admin.Role,
	}, nil
}

// EnsureDefaultAdmins seeds the back-office accounts on first start. The
// defaults must be rotated after deployment.
func (s *AdminService) EnsureDefaultAdmins(ctx context.Context) error {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		username string
		password string
		role     string
	}{
		{"superadmin", "super123", "superadmin"},
		{"admin1", "admin123", "admin"},
		{"admin2", "admin123", "admin"},
		{"admin3", "admin123", "admin"},
		{"admin4", "admin123", "admin"},
	}

	for _, d := range defaults {
		hash, err := HashPassword(d.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", d.username, err)
		}
		admin := &models.Admin{
			Username:     d.username,
			PasswordHash: hash,
			Role:         d.role,
			Active:       true,
		}
		if err := s.admins.Create(ctx, admin); err != nil {
			return fmt.Errorf("create admin %s: %w", d.username, err)
		}
	}

	log.Println("Seeded default admin accounts - change the default passwords")
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/config"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const AdminRole = "admin"

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// unknownAdminHash is compared against when the email is unknown so both
// failure paths spend a bcrypt comparison. It is built on first use.
func unknownAdminHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("campus-governance-unknown-admin"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// AdminAuthService issues admin access tokens. It is the credential
// collaborator for the admin routes; report services never see credentials.
type AdminAuthService struct {
	admins repository.AdminStore
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewAdminAuthService(admins repository.AdminStore, cfg *config.Config) *AdminAuthService {
	return &AdminAuthService{
		admins: admins,
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.JWTAccessExpiry,
		now:    time.Now,
	}
}

func (s *AdminAuthService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.admins.FindAdminByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load admin: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(unknownAdminHash(), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateAccessToken(admin)
}

// SeedAdmin creates the admin account or resets its password.
func (s *AdminAuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || len(password) < 8 {
		return errors.New("admin email required and password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.admins.SaveAdmin(ctx, &models.AdminUser{Email: email, PasswordHash: string(hash)})
}

func (s *AdminAuthService) generateAccessToken(admin *models.AdminUser) (*dto.AdminLoginResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)
	claims := jwt.MapClaims{
		"sub":   admin.ID.String(),
		"email": admin.Email,
		"role":  AdminRole,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.AdminLoginResponse{AccessToken: signed, ExpiresAt: expiresAt.UTC()}, nil
}

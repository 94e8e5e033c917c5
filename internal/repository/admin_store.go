package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormAdminStore struct {
	db *gorm.DB
}

func NewGormAdminStore(db *gorm.DB) *GormAdminStore {
	return &GormAdminStore{db: db}
}

func (s *GormAdminStore) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&admin).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// SaveAdmin creates the account or replaces the password hash of an existing one.
func (s *GormAdminStore) SaveAdmin(ctx context.Context, admin *models.AdminUser) error {
	admin.Email = normalizeEmail(admin.Email)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AdminUser
		err := tx.Where("email = ?", admin.Email).First(&existing).Error
		if err == nil {
			admin.ID = existing.ID
			return tx.Model(&existing).Update("password_hash", admin.PasswordHash).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if admin.ID == uuid.Nil {
			admin.ID = uuid.New()
		}
		return tx.Create(admin).Error
	})
	return translate(err)
}

type MemoryAdminStore struct {
	mu     sync.RWMutex
	admins map[string]models.AdminUser
}

func NewMemoryAdminStore() *MemoryAdminStore {
	return &MemoryAdminStore{admins: make(map[string]models.AdminUser)}
}

func (s *MemoryAdminStore) FindAdminByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &admin, nil
}

func (s *MemoryAdminStore) SaveAdmin(_ context.Context, admin *models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin.Email = normalizeEmail(admin.Email)
	if existing, ok := s.admins[admin.Email]; ok {
		admin.ID = existing.ID
	} else if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	s.admins[admin.Email] = *admin
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"clinic-records-server/internal/models"
)

// Accounts is the credential store.
type Accounts struct {
	DB *gorm.DB
}

// NewAccounts creates a new Accounts store.
func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{DB: db}
}

// FindByEmail returns the account with exactly this email. Case is
// significant even when the column collation ignores it.
func (s *Accounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var candidates []models.Account
	if err := s.DB.WithContext(ctx).Where("email = ?", email).Find(&candidates).Error; err != nil {
		return nil, translate(err, "find account by email")
	}
	for i := range candidates {
		if candidates[i].Email == email {
			return &candidates[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindByID returns the account with the given identity.
func (s *Accounts) FindByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find account by id")
	}
	return &account, nil
}

// Create inserts a new account with a bcrypt-hashed password. Callers check
// email uniqueness first; the unique index still rejects a racing insert with
// ErrDuplicateKey.
func (s *Accounts) Create(ctx context.Context, fullName, email, password string) (*models.Account, error) {
	account := models.Account{
		FullName: fullName,
		Email:    email,
	}
	if err := account.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.DB.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, translate(err, "create account")
	}
	return &account, nil
}

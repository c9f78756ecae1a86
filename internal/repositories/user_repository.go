package repositories

import (
	"skillhub/internal/models"
)

// UserRepository handles account-level user persistence for the auth flow.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	IncrementTokenVersion(userID uint) error
}

package repositories

import (
	"errors"
	"fmt"

	"github.com/notepass/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations. Lookups
// return (nil, nil) when no matching user exists so callers branch on
// absence instead of unwrapping storage errors.
type UserRepository interface {
	Create(email, username, displayName string) (*models.User, error)
	Edit(user *models.User, username, displayName string) error
	Get(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) usernameTaken(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create validates and inserts a new user. The username must not be taken.
func (r *PostgresUserRepository) Create(email, username, displayName string) (*models.User, error) {
	user, err := models.NewUser(email, username, displayName)
	if err != nil {
		return nil, err
	}

	taken, err := r.usernameTaken(user.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrInvalidOperation(fmt.Sprintf("Username %q is already taken", user.Username))
	}

	if err := r.db.Create(user).Error; err != nil {
		// The unique index is the authority on a racing duplicate insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrInvalidOperation(fmt.Sprintf("Username %q is already taken", user.Username))
		}
		return nil, err
	}
	return user, nil
}

// Edit updates the user's username and display name. The username is only
// re-validated and re-checked for uniqueness when it actually changed;
// re-setting the current values is a no-op.
func (r *PostgresUserRepository) Edit(user *models.User, username, displayName string) error {
	changed := false

	if username != user.Username {
		taken, err := r.usernameTaken(username)
		if err != nil {
			return err
		}
		if taken {
			return models.ErrInvalidOperation(fmt.Sprintf("Username %q is already taken", username))
		}
		if err := user.SetUsername(username); err != nil {
			return err
		}
		changed = true
	}

	if displayName != user.DisplayName {
		if err := user.SetDisplayName(displayName); err != nil {
			return err
		}
		changed = true
	}

	if !changed {
		return nil
	}

	if err := r.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrInvalidOperation(fmt.Sprintf("Username %q is already taken", username))
		}
		return err
	}
	return nil
}

// Get returns the requested user, or nil if they don't exist.
func (r *PostgresUserRepository) Get(id uint) (*models.User, error) {
	return r.getBy("id = ?", id)
}

// GetByEmail returns the requested user, or nil if they don't exist.
func (r *PostgresUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getBy("email = ?", email)
}

// GetByUsername returns the requested user, or nil if they don't exist.
func (r *PostgresUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getBy("username = ?", username)
}

func (r *PostgresUserRepository) getBy(query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

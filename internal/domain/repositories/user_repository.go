package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update updates a user
	Update(ctx context.Context, user *entities.User) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error

	// ListEmployees returns active employees, optionally filtered by company
	ListEmployees(ctx context.Context, companyID string) ([]*entities.User, error)
}

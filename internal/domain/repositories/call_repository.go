package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
)

// CallFilters narrows call listings
type CallFilters struct {
	EmployeeID  *uuid.UUID
	CustomerID  *uuid.UUID
	PhoneNumber string
	Status      *entities.CallStatus
	Limit       int
	Offset      int
}

// CallRepository defines the interface for call data access
type CallRepository interface {
	// Create creates a new call
	Create(ctx context.Context, call *entities.Call) error

	// FindByID finds a call by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Call, error)

	// FindByIDWithAudio finds a call by ID including the inline audio bytes
	FindByIDWithAudio(ctx context.Context, id uuid.UUID) (*entities.Call, error)

	// Update updates a call
	Update(ctx context.Context, call *entities.Call) error

	// UpdateStatus conditionally moves a call from one status to another.
	// Returns false when the call was not in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.CallStatus) (bool, error)

	// SetFlags updates the transcript/summary availability flags
	SetFlags(ctx context.Context, id uuid.UUID, flags map[string]interface{}) error

	// List returns calls matching the filters, newest first
	List(ctx context.Context, filters CallFilters) ([]*entities.Call, error)

	// Delete removes a call and its attachments
	Delete(ctx context.Context, id uuid.UUID) error
}

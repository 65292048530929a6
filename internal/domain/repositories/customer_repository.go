package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *entities.Customer) error

	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Customer, error)

	// FindByEmployeeAndPhone finds a customer scoped to an employee by phone number
	FindByEmployeeAndPhone(ctx context.Context, employeeID uuid.UUID, phoneNumber string) (*entities.Customer, error)

	// Update updates a customer
	Update(ctx context.Context, customer *entities.Customer) error

	// ListByEmployee returns an employee's customers, most recently called first
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*entities.Customer, error)
}

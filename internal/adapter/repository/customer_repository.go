package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
)

// CustomerRepository handles customer data operations
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	if customer == nil {
		return errors.New("customer cannot be nil")
	}
	return r.db.WithContext(ctx).Create(customer).Error
}

// FindByID finds a customer by ID
func (r *CustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Customer, error) {
	var customer entities.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// FindByEmployeeAndPhone finds a customer scoped to an employee by phone number
func (r *CustomerRepository) FindByEmployeeAndPhone(ctx context.Context, employeeID uuid.UUID, phoneNumber string) (*entities.Customer, error) {
	var customer entities.Customer
	if err := r.db.WithContext(ctx).
		Where("employee_id = ? AND phone_number = ?", employeeID, phoneNumber).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// Update updates a customer
func (r *CustomerRepository) Update(ctx context.Context, customer *entities.Customer) error {
	if customer == nil {
		return errors.New("customer cannot be nil")
	}
	return r.db.WithContext(ctx).Save(customer).Error
}

// ListByEmployee returns an employee's customers, most recently called first
func (r *CustomerRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*entities.Customer, error) {
	var customers []*entities.Customer
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("last_call_at DESC NULLS LAST").
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a contact an employee has called. A customer is
// scoped to a single employee: the same phone number called by two
// employees produces two customer rows.
type Customer struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `json:"employee_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_employee_phone"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(50);not null;uniqueIndex:idx_employee_phone"`
	Alias       string    `json:"alias" gorm:"type:varchar(255)"`
	Name        string    `json:"name" gorm:"type:varchar(255)"`
	Company     string    `json:"company" gorm:"type:varchar(255)"`
	Email       string    `json:"email" gorm:"type:varchar(255)"`

	LastCallAt *time.Time `json:"last_call_at,omitempty" gorm:"type:timestamp;index"`
	TotalCalls int        `json:"total_calls" gorm:"type:integer;default:0;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer for an employee and phone number
func NewCustomer(employeeID uuid.UUID, phoneNumber string) *Customer {
	now := time.Now()
	return &Customer{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		PhoneNumber: phoneNumber,
		TotalCalls:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RecordCall bumps the call counters for a completed upload
func (c *Customer) RecordCall(at time.Time) {
	c.TotalCalls++
	c.LastCallAt = &at
	c.UpdatedAt = time.Now()
}

// DisplayName returns the best available label for the customer
func (c *Customer) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Alias != "" {
		return c.Alias
	}
	return c.PhoneNumber
}

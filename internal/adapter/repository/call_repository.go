package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/repositories"
)

// CallRepository handles call data operations
type CallRepository struct {
	db *gorm.DB
}

// NewCallRepository creates a new call repository
func NewCallRepository(db *gorm.DB) *CallRepository {
	return &CallRepository{db: db}
}

// Create creates a new call
func (r *CallRepository) Create(ctx context.Context, call *entities.Call) error {
	if call == nil {
		return errors.New("call cannot be nil")
	}
	return r.db.WithContext(ctx).Create(call).Error
}

// FindByID finds a call by ID. The inline audio blob is omitted; use
// FindByIDWithAudio when the bytes are needed.
func (r *CallRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Call, error) {
	var call entities.Call
	if err := r.db.WithContext(ctx).
		Omit("audio_bytes").
		Where("id = ?", id).
		First(&call).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &call, nil
}

// FindByIDWithAudio finds a call by ID including the inline audio bytes
func (r *CallRepository) FindByIDWithAudio(ctx context.Context, id uuid.UUID) (*entities.Call, error) {
	var call entities.Call
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&call).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &call, nil
}

// Update updates a call
func (r *CallRepository) Update(ctx context.Context, call *entities.Call) error {
	if call == nil {
		return errors.New("call cannot be nil")
	}
	return r.db.WithContext(ctx).Save(call).Error
}

// UpdateStatus conditionally moves a call from one status to another.
// The WHERE guard keeps the transition atomic under concurrent workers.
func (r *CallRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.CallStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Call{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetFlags updates the transcript/summary availability flags
func (r *CallRepository) SetFlags(ctx context.Context, id uuid.UUID, flags map[string]interface{}) error {
	if len(flags) == 0 {
		return nil
	}
	flags["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Call{}).
		Where("id = ?", id).
		Updates(flags).Error
}

// List returns calls matching the filters, newest first
func (r *CallRepository) List(ctx context.Context, filters repositories.CallFilters) ([]*entities.Call, error) {
	var calls []*entities.Call

	query := r.db.WithContext(ctx).Model(&entities.Call{}).Omit("audio_bytes")
	if filters.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filters.EmployeeID)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.PhoneNumber != "" {
		query = query.Where("phone_number = ?", filters.PhoneNumber)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	query = query.Limit(limit)
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("started_at DESC").Find(&calls).Error; err != nil {
		return nil, err
	}
	return calls, nil
}

// Delete removes a call and its attachments
func (r *CallRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("call_id = ?", id).Delete(&entities.Transcript{}).Error; err != nil {
			return err
		}
		if err := tx.Where("call_id = ?", id).Delete(&entities.AISummary{}).Error; err != nil {
			return err
		}
		if err := tx.Where("call_id = ?", id).Delete(&entities.ProcessingJob{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Call{}, "id = ?", id).Error
	})
}

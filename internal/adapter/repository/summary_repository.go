package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
)

// SummaryRepository handles AI summary data operations
type SummaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Create stores a summary
func (r *SummaryRepository) Create(ctx context.Context, summary *entities.AISummary) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}
	return r.db.WithContext(ctx).Create(summary).Error
}

// FindByCallID finds the summary for a call
func (r *SummaryRepository) FindByCallID(ctx context.Context, callID uuid.UUID) (*entities.AISummary, error) {
	var summary entities.AISummary
	if err := r.db.WithContext(ctx).Where("call_id = ?", callID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

// ListByCustomer returns summaries for a customer's calls in chronological order
func (r *SummaryRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.AISummary, error) {
	var summaries []*entities.AISummary
	if err := r.db.WithContext(ctx).
		Joins("JOIN calls ON calls.id = ai_summaries.call_id").
		Where("calls.customer_id = ?", customerID).
		Order("calls.started_at ASC").
		Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// DeleteByCallID removes the summary for a call
func (r *SummaryRepository) DeleteByCallID(ctx context.Context, callID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("call_id = ?", callID).Delete(&entities.AISummary{}).Error
}

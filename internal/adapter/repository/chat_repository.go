package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
)

// ChatRepository handles chat message data operations
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create stores a chat message
func (r *ChatRepository) Create(ctx context.Context, message *entities.ChatMessage) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	return r.db.WithContext(ctx).Create(message).Error
}

// ListByCustomer returns the chat history between an employee and customer,
// oldest first, bounded by limit
func (r *ChatRepository) ListByCustomer(ctx context.Context, customerID, employeeID uuid.UUID, limit int) ([]*entities.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	// Fetch the newest messages, then reverse into chronological order
	var newest []*entities.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND employee_id = ?", customerID, employeeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&newest).Error; err != nil {
		return nil, err
	}

	messages := make([]*entities.ChatMessage, len(newest))
	for i, m := range newest {
		messages[len(newest)-1-i] = m
	}
	return messages, nil
}

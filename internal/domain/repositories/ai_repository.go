package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
)

// TranscriptRepository defines the interface for transcript data access
type TranscriptRepository interface {
	// Create stores a transcript
	Create(ctx context.Context, transcript *entities.Transcript) error

	// FindByCallID finds the transcript for a call
	FindByCallID(ctx context.Context, callID uuid.UUID) (*entities.Transcript, error)

	// DeleteByCallID removes the transcript for a call
	DeleteByCallID(ctx context.Context, callID uuid.UUID) error
}

// SummaryRepository defines the interface for AI summary data access
type SummaryRepository interface {
	// Create stores a summary
	Create(ctx context.Context, summary *entities.AISummary) error

	// FindByCallID finds the summary for a call
	FindByCallID(ctx context.Context, callID uuid.UUID) (*entities.AISummary, error)

	// ListByCustomer returns summaries for a customer's calls in chronological order
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.AISummary, error)

	// DeleteByCallID removes the summary for a call
	DeleteByCallID(ctx context.Context, callID uuid.UUID) error
}

// ChatRepository defines the interface for chat message data access
type ChatRepository interface {
	// Create stores a chat message
	Create(ctx context.Context, message *entities.ChatMessage) error

	// ListByCustomer returns the chat history between an employee and customer,
	// oldest first, bounded by limit
	ListByCustomer(ctx context.Context, customerID, employeeID uuid.UUID, limit int) ([]*entities.ChatMessage, error)
}

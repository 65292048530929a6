package entities

import (
	"time"

	"github.com/google/uuid"
)

// ChatSender identifies who produced a chat message
type ChatSender string

const (
	ChatSenderUser ChatSender = "user"
	ChatSenderAI   ChatSender = "ai"
)

// ChatMessage is one turn in the AI assistant conversation about a customer
type ChatMessage struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID uuid.UUID  `json:"customer_id" gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID  `json:"employee_id" gorm:"type:uuid;not null;index"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	Sender     ChatSender `json:"sender" gorm:"type:varchar(10);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// NewChatMessage creates a chat message
func NewChatMessage(customerID, employeeID uuid.UUID, content string, sender ChatSender) *ChatMessage {
	return &ChatMessage{
		ID:         uuid.New(),
		CustomerID: customerID,
		EmployeeID: employeeID,
		Content:    content,
		Sender:     sender,
		CreatedAt:  time.Now(),
	}
}

package ai

import "time"

// ChatResponse is the assistant's reply
type ChatResponse struct {
	Reply    string `json:"reply"`
	Model    string `json:"model,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

// ChatMessageResponse is one message in the conversation history
type ChatMessageResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Content    string    `json:"content"`
	Sender     string    `json:"sender"`
	CreatedAt  time.Time `json:"created_at"`
}

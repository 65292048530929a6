package ai

// ChatRequest is the payload for the customer chat assistant
type ChatRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	Message    string `json:"message" validate:"required"`
}

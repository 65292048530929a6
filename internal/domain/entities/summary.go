package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sentiment labels for AI summaries
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// AISummary is the structured LLM analysis of a call, 1:1 by call ID
type AISummary struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CallID  uuid.UUID `json:"call_id" gorm:"type:uuid;not null;uniqueIndex"`
	Summary string    `json:"summary" gorm:"type:text;not null"`

	Highlights     datatypes.JSON `json:"highlights,omitempty" gorm:"type:jsonb;default:'[]'"`
	Sentiment      string         `json:"sentiment" gorm:"type:varchar(20);default:'neutral'"`
	SentimentScore float64        `json:"sentiment_score" gorm:"type:float;default:0"`
	NextSteps      datatypes.JSON `json:"next_steps,omitempty" gorm:"type:jsonb;default:'[]'"`
	Concerns       datatypes.JSON `json:"concerns,omitempty" gorm:"type:jsonb;default:'[]'"`

	RawResponse string `json:"-" gorm:"type:text"`
	Model       string `json:"model" gorm:"type:varchar(100)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (AISummary) TableName() string {
	return "ai_summaries"
}

// NewAISummary creates a summary for a call
func NewAISummary(callID uuid.UUID, summary string) *AISummary {
	return &AISummary{
		ID:        uuid.New(),
		CallID:    callID,
		Summary:   summary,
		Sentiment: SentimentNeutral,
		CreatedAt: time.Now(),
	}
}

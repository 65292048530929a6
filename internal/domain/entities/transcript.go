package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Transcript is the speech-to-text result for a call, 1:1 by call ID
type Transcript struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CallID   uuid.UUID `json:"call_id" gorm:"type:uuid;not null;uniqueIndex"`
	FullText string    `json:"full_text" gorm:"type:text;not null"`

	// Segments holds optional timed fragments: [{"start":0.0,"end":4.2,"text":"..."}]
	Segments   datatypes.JSON `json:"segments,omitempty" gorm:"type:jsonb;default:'[]'"`
	Language   string         `json:"language" gorm:"type:varchar(10)"`
	Confidence float64        `json:"confidence" gorm:"type:float;default:0"`
	Provider   string         `json:"provider" gorm:"type:varchar(50)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// TranscriptSegment is one timed fragment of a transcript
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// NewTranscript creates a transcript for a call
func NewTranscript(callID uuid.UUID, fullText, provider string) *Transcript {
	return &Transcript{
		ID:        uuid.New(),
		CallID:    callID,
		FullText:  fullText,
		Provider:  provider,
		CreatedAt: time.Now(),
	}
}

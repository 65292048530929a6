package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CallStatus represents the processing state of a call recording
type CallStatus string

const (
	CallStatusRecording    CallStatus = "recording"    // Upload arrived without an end time
	CallStatusCompleted    CallStatus = "completed"    // Call ended, audio stored
	CallStatusTranscribing CallStatus = "transcribing" // Submitted for transcription
	CallStatusAnalyzed     CallStatus = "analyzed"     // Transcript and summary available
	CallStatusFailed       CallStatus = "failed"       // Processing failed
)

// callTransitions describes the forward-only status machine.
// Failed is reachable from every state.
var callTransitions = map[CallStatus][]CallStatus{
	CallStatusRecording:    {CallStatusCompleted, CallStatusFailed},
	CallStatusCompleted:    {CallStatusTranscribing, CallStatusFailed},
	CallStatusTranscribing: {CallStatusAnalyzed, CallStatusFailed},
	CallStatusAnalyzed:     {CallStatusFailed},
	CallStatusFailed:       {},
}

// CallType represents the direction of a call
type CallType string

const (
	CallTypeIncoming CallType = "incoming"
	CallTypeOutgoing CallType = "outgoing"
)

// IsValid checks if the call type is valid
func (t CallType) IsValid() bool {
	switch t {
	case CallTypeIncoming, CallTypeOutgoing:
		return true
	}
	return false
}

// Call represents a recorded sales call
type Call struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID  `json:"employee_id" gorm:"type:uuid;not null;index"`
	CustomerID   uuid.UUID  `json:"customer_id" gorm:"type:uuid;not null;index"`
	PhoneNumber  string     `json:"phone_number" gorm:"type:varchar(50);not null;index"`
	CustomerName string     `json:"customer_name" gorm:"type:varchar(255)"`
	Type         CallType   `json:"type" gorm:"type:varchar(20);not null"`
	Status       CallStatus `json:"status" gorm:"type:varchar(20);not null;default:'recording';index"`

	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	DurationSec int        `json:"duration_sec" gorm:"type:integer;default:0"`

	// Dual-store audio: the object key points at the MinIO copy, AudioBytes
	// carries the inline database copy. Either may be absent; the Stored*
	// flags record which writes succeeded at upload time.
	AudioObjectKey string `json:"audio_object_key,omitempty" gorm:"type:varchar(500)"`
	AudioBytes     []byte `json:"-" gorm:"column:audio_bytes;type:bytea"`
	AudioSize      int64  `json:"audio_size" gorm:"type:bigint;default:0"`
	AudioMime      string `json:"audio_mime" gorm:"type:varchar(100)"`
	StoredObject   bool   `json:"stored_object" gorm:"default:false;not null"`
	StoredInline   bool   `json:"stored_inline" gorm:"default:false;not null"`

	HasTranscript bool   `json:"has_transcript" gorm:"default:false;not null"`
	HasAISummary  bool   `json:"has_ai_summary" gorm:"default:false;not null"`
	Notes         string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Call) TableName() string {
	return "calls"
}

// NewCall creates a call record for an employee and customer
func NewCall(employeeID, customerID uuid.UUID, phoneNumber string, callType CallType, startedAt time.Time) *Call {
	now := time.Now()
	return &Call{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		CustomerID:  customerID,
		PhoneNumber: phoneNumber,
		Type:        callType,
		Status:      CallStatusRecording,
		StartedAt:   startedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CanTransition reports whether moving to the requested status is allowed
func (c *Call) CanTransition(next CallStatus) bool {
	if c.Status == next {
		return false
	}
	for _, allowed := range callTransitions[c.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition moves the call to the requested status or returns an error
func (c *Call) Transition(next CallStatus) error {
	if !c.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, next)
	}
	c.Status = next
	c.UpdatedAt = time.Now()
	return nil
}

// Complete marks the call as ended at the given time
func (c *Call) Complete(endedAt time.Time) error {
	if err := c.Transition(CallStatusCompleted); err != nil {
		return err
	}
	c.EndedAt = &endedAt
	if c.DurationSec == 0 && endedAt.After(c.StartedAt) {
		c.DurationSec = int(endedAt.Sub(c.StartedAt).Seconds())
	}
	return nil
}

// HasAudio reports whether at least one audio store holds the recording
func (c *Call) HasAudio() bool {
	return c.StoredObject || c.StoredInline
}

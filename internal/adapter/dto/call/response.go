package call

import "time"

// CallResponse is the public shape of a call
type CallResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	CustomerID   string     `json:"customer_id"`
	PhoneNumber  string     `json:"phone_number"`
	CustomerName string     `json:"customer_name,omitempty"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	DurationSec  int        `json:"duration_sec"`

	AudioSize     int64  `json:"audio_size"`
	AudioMime     string `json:"audio_mime,omitempty"`
	StoredObject  bool   `json:"stored_object"`
	StoredInline  bool   `json:"stored_inline"`
	HasTranscript bool   `json:"has_transcript"`
	HasAISummary  bool   `json:"has_ai_summary"`
	Notes         string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TranscriptResponse is the public shape of a transcript
type TranscriptResponse struct {
	ID        string    `json:"id"`
	CallID    string    `json:"call_id"`
	FullText  string    `json:"full_text"`
	Language  string    `json:"language,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryResponse is the public shape of an AI summary
type SummaryResponse struct {
	ID             string    `json:"id"`
	CallID         string    `json:"call_id"`
	Summary        string    `json:"summary"`
	Highlights     []string  `json:"highlights"`
	Sentiment      string    `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	NextSteps      []string  `json:"next_steps"`
	Concerns       []string  `json:"concerns"`
	Model          string    `json:"model,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DetailResponse bundles a call with its attachments
type DetailResponse struct {
	Call       *CallResponse       `json:"call"`
	Transcript *TranscriptResponse `json:"transcript,omitempty"`
	Summary    *SummaryResponse    `json:"summary,omitempty"`
}

// UploadResponse is returned after a successful upload
type UploadResponse struct {
	Call     *CallResponse     `json:"call"`
	Customer *CustomerResponse `json:"customer"`
}

// CustomerResponse is the public shape of a customer
type CustomerResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	PhoneNumber string     `json:"phone_number"`
	Name        string     `json:"name,omitempty"`
	Alias       string     `json:"alias,omitempty"`
	Company     string     `json:"company,omitempty"`
	Email       string     `json:"email,omitempty"`
	LastCallAt  *time.Time `json:"last_call_at,omitempty"`
	TotalCalls  int        `json:"total_calls"`
	CreatedAt   time.Time  `json:"created_at"`
}

// JobResponse is returned when a processing job is enqueued
type JobResponse struct {
	ID      string `json:"id"`
	CallID  string `json:"call_id"`
	JobType string `json:"job_type"`
	Status  string `json:"status"`
}

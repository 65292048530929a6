package presenter

import (
	"encoding/json"

	aiDTO "github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/dto/ai"
	callDTO "github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/dto/call"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	callUsecase "github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/call"
)

// ToCallResponse converts a Call entity to its public DTO
func ToCallResponse(c *entities.Call) *callDTO.CallResponse {
	if c == nil {
		return nil
	}

	return &callDTO.CallResponse{
		ID:            c.ID.String(),
		EmployeeID:    c.EmployeeID.String(),
		CustomerID:    c.CustomerID.String(),
		PhoneNumber:   c.PhoneNumber,
		CustomerName:  c.CustomerName,
		Type:          string(c.Type),
		Status:        string(c.Status),
		StartedAt:     c.StartedAt,
		EndedAt:       c.EndedAt,
		DurationSec:   c.DurationSec,
		AudioSize:     c.AudioSize,
		AudioMime:     c.AudioMime,
		StoredObject:  c.StoredObject,
		StoredInline:  c.StoredInline,
		HasTranscript: c.HasTranscript,
		HasAISummary:  c.HasAISummary,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
	}
}

// ToCallResponses converts a slice of calls
func ToCallResponses(calls []*entities.Call) []*callDTO.CallResponse {
	out := make([]*callDTO.CallResponse, 0, len(calls))
	for _, c := range calls {
		out = append(out, ToCallResponse(c))
	}
	return out
}

// ToTranscriptResponse converts a Transcript entity to its public DTO
func ToTranscriptResponse(t *entities.Transcript) *callDTO.TranscriptResponse {
	if t == nil {
		return nil
	}

	return &callDTO.TranscriptResponse{
		ID:        t.ID.String(),
		CallID:    t.CallID.String(),
		FullText:  t.FullText,
		Language:  t.Language,
		Provider:  t.Provider,
		CreatedAt: t.CreatedAt,
	}
}

// ToSummaryResponse converts an AISummary entity to its public DTO
func ToSummaryResponse(s *entities.AISummary) *callDTO.SummaryResponse {
	if s == nil {
		return nil
	}

	return &callDTO.SummaryResponse{
		ID:             s.ID.String(),
		CallID:         s.CallID.String(),
		Summary:        s.Summary,
		Highlights:     decodeStringList(s.Highlights),
		Sentiment:      s.Sentiment,
		SentimentScore: s.SentimentScore,
		NextSteps:      decodeStringList(s.NextSteps),
		Concerns:       decodeStringList(s.Concerns),
		Model:          s.Model,
		CreatedAt:      s.CreatedAt,
	}
}

// ToDetailResponse converts a call detail bundle
func ToDetailResponse(d *callUsecase.CallDetail) *callDTO.DetailResponse {
	if d == nil {
		return nil
	}

	return &callDTO.DetailResponse{
		Call:       ToCallResponse(d.Call),
		Transcript: ToTranscriptResponse(d.Transcript),
		Summary:    ToSummaryResponse(d.Summary),
	}
}

// ToUploadResponse converts an upload result
func ToUploadResponse(r *callUsecase.UploadResult) *callDTO.UploadResponse {
	if r == nil {
		return nil
	}

	return &callDTO.UploadResponse{
		Call:     ToCallResponse(r.Call),
		Customer: ToCustomerResponse(r.Customer),
	}
}

// ToCustomerResponse converts a Customer entity to its public DTO
func ToCustomerResponse(c *entities.Customer) *callDTO.CustomerResponse {
	if c == nil {
		return nil
	}

	return &callDTO.CustomerResponse{
		ID:          c.ID.String(),
		EmployeeID:  c.EmployeeID.String(),
		PhoneNumber: c.PhoneNumber,
		Name:        c.Name,
		Alias:       c.Alias,
		Company:     c.Company,
		Email:       c.Email,
		LastCallAt:  c.LastCallAt,
		TotalCalls:  c.TotalCalls,
		CreatedAt:   c.CreatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []*entities.Customer) []*callDTO.CustomerResponse {
	out := make([]*callDTO.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, ToCustomerResponse(c))
	}
	return out
}

// ToJobResponse converts a processing job
func ToJobResponse(j *entities.ProcessingJob) *callDTO.JobResponse {
	if j == nil {
		return nil
	}

	return &callDTO.JobResponse{
		ID:      j.ID.String(),
		CallID:  j.CallID.String(),
		JobType: string(j.JobType),
		Status:  string(j.Status),
	}
}

// ToChatMessageResponses converts chat history
func ToChatMessageResponses(messages []*entities.ChatMessage) []*aiDTO.ChatMessageResponse {
	out := make([]*aiDTO.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, &aiDTO.ChatMessageResponse{
			ID:         m.ID.String(),
			CustomerID: m.CustomerID.String(),
			Content:    m.Content,
			Sender:     string(m.Sender),
			CreatedAt:  m.CreatedAt,
		})
	}
	return out
}

// decodeStringList unpacks a JSONB string array column
func decodeStringList(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}

package call

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/Jawad-Naqvi/Call-Companion1/errors"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/repositories"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
)

// maxInlineAudioBytes caps the copy kept in the database. Larger
// recordings rely on the object store alone.
const maxInlineAudioBytes = 25 << 20

// presignedAudioExpiry bounds how long a direct download link stays valid
const presignedAudioExpiry = 15 * time.Minute

// ObjectStore is the object storage surface the service needs
type ObjectStore interface {
	UploadAudio(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	DownloadAudio(ctx context.Context, objectKey string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	DeleteAudio(ctx context.Context, objectKey string) error
}

// Service handles call uploads, retrieval and lifecycle
type Service struct {
	callRepo       repositories.CallRepository
	customerRepo   repositories.CustomerRepository
	transcriptRepo repositories.TranscriptRepository
	summaryRepo    repositories.SummaryRepository
	jobRepo        repositories.JobRepository
	store          ObjectStore
	aiCfg          *config.AIConfig
	logger         *zap.Logger
}

// NewService creates a new call service
func NewService(
	callRepo repositories.CallRepository,
	customerRepo repositories.CustomerRepository,
	transcriptRepo repositories.TranscriptRepository,
	summaryRepo repositories.SummaryRepository,
	jobRepo repositories.JobRepository,
	store ObjectStore,
	aiCfg *config.AIConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		callRepo:       callRepo,
		customerRepo:   customerRepo,
		transcriptRepo: transcriptRepo,
		summaryRepo:    summaryRepo,
		jobRepo:        jobRepo,
		store:          store,
		aiCfg:          aiCfg,
		logger:         logger,
	}
}

// UploadRequest carries a recorded call and its metadata
type UploadRequest struct {
	PhoneNumber  string
	CustomerName string
	Type         entities.CallType
	StartedAt    time.Time
	EndedAt      *time.Time
	DurationSec  int
	Notes        string

	Audio       []byte
	Filename    string
	ContentType string
}

// UploadResult is returned after a successful upload
type UploadResult struct {
	Call     *entities.Call     `json:"call"`
	Customer *entities.Customer `json:"customer"`
}

// Upload stores a recorded call. The audio is written to the object
// store and inline to the database; the upload only fails when neither
// copy could be stored.
func (s *Service) Upload(ctx context.Context, employee *entities.User, req *UploadRequest) (*UploadResult, error) {
	if req.PhoneNumber == "" {
		return nil, apperrors.ErrInvalidArgument("phone_number is required")
	}
	if !req.Type.IsValid() {
		return nil, apperrors.ErrInvalidArgument(fmt.Sprintf("invalid call type: %s", req.Type))
	}
	if req.StartedAt.IsZero() {
		return nil, apperrors.ErrInvalidArgument("started_at is required")
	}
	if len(req.Audio) == 0 {
		return nil, apperrors.ErrInvalidArgument("audio file is required")
	}

	customer, err := s.findOrCreateCustomer(ctx, employee.ID, req)
	if err != nil {
		return nil, err
	}

	call := entities.NewCall(employee.ID, customer.ID, req.PhoneNumber, req.Type, req.StartedAt)
	call.CustomerName = customer.DisplayName()
	call.Notes = req.Notes
	call.DurationSec = req.DurationSec
	call.AudioSize = int64(len(req.Audio))
	call.AudioMime = req.ContentType
	if call.AudioMime == "" {
		call.AudioMime = "audio/mp4"
	}

	if req.EndedAt != nil {
		if err := call.Complete(*req.EndedAt); err != nil {
			return nil, apperrors.ErrInvalidArgument(err.Error())
		}
	}

	s.storeAudio(ctx, call, req)
	if !call.HasAudio() {
		return nil, apperrors.ErrCallUploadFailed(fmt.Errorf("no audio copy could be stored"))
	}

	if err := s.callRepo.Create(ctx, call); err != nil {
		// Audio without a call row is unreachable, clean up the object
		if call.StoredObject {
			_ = s.store.DeleteAudio(ctx, call.AudioObjectKey)
		}
		return nil, fmt.Errorf("failed to create call: %w", err)
	}

	// Count the call only now that its row is committed; a failed
	// upload must not inflate the customer's counters.
	customer.RecordCall(req.StartedAt)
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.logger.Warn("failed to update customer call counters",
			zap.String("customer_id", customer.ID.String()), zap.Error(err))
	}

	s.logger.Info("call uploaded",
		zap.String("call_id", call.ID.String()),
		zap.String("employee_id", employee.ID.String()),
		zap.String("phone_number", call.PhoneNumber),
		zap.Bool("stored_object", call.StoredObject),
		zap.Bool("stored_inline", call.StoredInline),
		zap.Int64("audio_size", call.AudioSize))

	if s.aiCfg.TranscriptionEnabled && call.Status == entities.CallStatusCompleted {
		if err := s.jobRepo.Create(ctx, entities.NewProcessingJob(call.ID, entities.JobTypeTranscription)); err != nil {
			s.logger.Warn("failed to enqueue transcription job",
				zap.String("call_id", call.ID.String()), zap.Error(err))
		}
	}

	return &UploadResult{Call: call, Customer: customer}, nil
}

// findOrCreateCustomer resolves the customer for the employee and
// phone number. Call counters are not touched here; the caller bumps
// them once the call row is committed.
func (s *Service) findOrCreateCustomer(ctx context.Context, employeeID uuid.UUID, req *UploadRequest) (*entities.Customer, error) {
	customer, err := s.customerRepo.FindByEmployeeAndPhone(ctx, employeeID, req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	if customer == nil {
		customer = entities.NewCustomer(employeeID, req.PhoneNumber)
		customer.Name = req.CustomerName
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}
		return customer, nil
	}

	if req.CustomerName != "" && customer.Name == "" {
		customer.Name = req.CustomerName
	}
	return customer, nil
}

// storeAudio performs the dual write. Each copy is best-effort; the
// caller decides what a total miss means.
func (s *Service) storeAudio(ctx context.Context, call *entities.Call, req *UploadRequest) {
	objectKey := buildObjectKey(call.EmployeeID, call.ID, req.Filename)

	if err := s.store.UploadAudio(ctx, objectKey, bytes.NewReader(req.Audio), int64(len(req.Audio)), call.AudioMime); err != nil {
		s.logger.Warn("object store write failed, keeping inline copy only",
			zap.String("call_id", call.ID.String()), zap.Error(err))
	} else {
		call.AudioObjectKey = objectKey
		call.StoredObject = true
	}

	if len(req.Audio) <= maxInlineAudioBytes {
		call.AudioBytes = req.Audio
		call.StoredInline = true
	} else {
		s.logger.Warn("audio exceeds inline limit, skipping database copy",
			zap.String("call_id", call.ID.String()), zap.Int("size", len(req.Audio)))
	}
}

func buildObjectKey(employeeID, callID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".m4a"
	}
	return fmt.Sprintf("calls/%s/%s%s", employeeID, callID, ext)
}

// ListRequest narrows call listings
type ListRequest struct {
	EmployeeID  *uuid.UUID
	CustomerID  *uuid.UUID
	PhoneNumber string
	Status      string
	Limit       int
	Offset      int
}

// List returns the calls visible to the requester. Employees only see
// their own calls; admins see everything and may filter by employee.
func (s *Service) List(ctx context.Context, requester *entities.User, req *ListRequest) ([]*entities.Call, error) {
	filters := repositories.CallFilters{
		CustomerID:  req.CustomerID,
		PhoneNumber: req.PhoneNumber,
		Limit:       req.Limit,
		Offset:      req.Offset,
	}

	if requester.IsAdmin() {
		filters.EmployeeID = req.EmployeeID
	} else {
		id := requester.ID
		filters.EmployeeID = &id
	}

	if req.Status != "" {
		status := entities.CallStatus(req.Status)
		filters.Status = &status
	}

	calls, err := s.callRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	return calls, nil
}

// CallDetail bundles a call with its transcript and summary when present
type CallDetail struct {
	Call       *entities.Call       `json:"call"`
	Transcript *entities.Transcript `json:"transcript,omitempty"`
	Summary    *entities.AISummary  `json:"summary,omitempty"`
}

// Get loads a call with its attachments
func (s *Service) Get(ctx context.Context, requester *entities.User, callID uuid.UUID) (*CallDetail, error) {
	call, err := s.authorizeCall(ctx, requester, callID)
	if err != nil {
		return nil, err
	}

	detail := &CallDetail{Call: call}

	if call.HasTranscript {
		transcript, err := s.transcriptRepo.FindByCallID(ctx, callID)
		if err != nil {
			return nil, fmt.Errorf("failed to load transcript: %w", err)
		}
		detail.Transcript = transcript
	}

	if call.HasAISummary {
		summary, err := s.summaryRepo.FindByCallID(ctx, callID)
		if err != nil {
			return nil, fmt.Errorf("failed to load summary: %w", err)
		}
		detail.Summary = summary
	}

	return detail, nil
}

// AudioStream is an open recording ready to be served
type AudioStream struct {
	Reader io.ReadCloser
	Mime   string
	Size   int64
}

// StreamAudio opens the recording for a call. The object store copy is
// preferred; the inline database copy serves as fallback.
func (s *Service) StreamAudio(ctx context.Context, requester *entities.User, callID uuid.UUID) (*AudioStream, error) {
	call, err := s.authorizeCall(ctx, requester, callID)
	if err != nil {
		return nil, err
	}

	if call.StoredObject {
		reader, err := s.store.DownloadAudio(ctx, call.AudioObjectKey)
		if err == nil {
			return &AudioStream{Reader: reader, Mime: call.AudioMime, Size: call.AudioSize}, nil
		}
		s.logger.Warn("object store read failed, falling back to inline copy",
			zap.String("call_id", call.ID.String()), zap.Error(err))
	}

	if call.StoredInline {
		full, err := s.callRepo.FindByIDWithAudio(ctx, callID)
		if err != nil {
			return nil, fmt.Errorf("failed to load inline audio: %w", err)
		}
		if full != nil && len(full.AudioBytes) > 0 {
			return &AudioStream{
				Reader: io.NopCloser(bytes.NewReader(full.AudioBytes)),
				Mime:   full.AudioMime,
				Size:   int64(len(full.AudioBytes)),
			}, nil
		}
	}

	return nil, apperrors.ErrCallAudioMissing(callID.String())
}

// AudioLink returns a time-limited direct download URL for the object
// store copy. Calls that only have the inline copy cannot be linked.
func (s *Service) AudioLink(ctx context.Context, requester *entities.User, callID uuid.UUID) (string, error) {
	call, err := s.authorizeCall(ctx, requester, callID)
	if err != nil {
		return "", err
	}

	if !call.StoredObject || call.AudioObjectKey == "" {
		return "", apperrors.ErrCallAudioMissing(callID.String())
	}

	url, err := s.store.PresignedURL(ctx, call.AudioObjectKey, presignedAudioExpiry)
	if err != nil {
		return "", apperrors.ErrStorageFailed("presign audio", err)
	}
	return url, nil
}

// Delete removes a call, its attachments and its stored audio
func (s *Service) Delete(ctx context.Context, requester *entities.User, callID uuid.UUID) error {
	call, err := s.authorizeCall(ctx, requester, callID)
	if err != nil {
		return err
	}

	if err := s.callRepo.Delete(ctx, callID); err != nil {
		return fmt.Errorf("failed to delete call: %w", err)
	}

	// Object store cleanup is best-effort, the row is already gone
	if call.StoredObject {
		if err := s.store.DeleteAudio(ctx, call.AudioObjectKey); err != nil {
			s.logger.Warn("failed to delete audio object",
				zap.String("call_id", callID.String()), zap.Error(err))
		}
	}

	s.logger.Info("call deleted", zap.String("call_id", callID.String()))
	return nil
}

// RequestTranscription enqueues a transcription job for a completed call
func (s *Service) RequestTranscription(ctx context.Context, requester *entities.User, callID uuid.UUID) (*entities.ProcessingJob, error) {
	call, err := s.authorizeCall(ctx, requester, callID)
	if err != nil {
		return nil, err
	}

	if !call.HasAudio() {
		return nil, apperrors.ErrCallAudioMissing(callID.String())
	}
	if call.Status != entities.CallStatusCompleted {
		return nil, apperrors.ErrCallInvalidState(callID.String(), string(call.Status), string(entities.CallStatusTranscribing))
	}

	job := entities.NewProcessingJob(callID, entities.JobTypeTranscription)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue transcription job: %w", err)
	}
	return job, nil
}

// RequestSummary enqueues a summary job for a transcribed call
func (s *Service) RequestSummary(ctx context.Context, requester *entities.User, callID uuid.UUID) (*entities.ProcessingJob, error) {
	call, err := s.authorizeCall(ctx, requester, callID)
	if err != nil {
		return nil, err
	}

	if !call.HasTranscript {
		return nil, apperrors.ErrTranscriptNotFound(callID.String())
	}

	job := entities.NewProcessingJob(callID, entities.JobTypeSummary)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue summary job: %w", err)
	}
	return job, nil
}

// ListCustomers returns the customers an employee has called
func (s *Service) ListCustomers(ctx context.Context, requester *entities.User, employeeID uuid.UUID) ([]*entities.Customer, error) {
	if !requester.IsAdmin() && requester.ID != employeeID {
		return nil, apperrors.ErrForbidden("cannot view another employee's customers")
	}

	customers, err := s.customerRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// GetCustomer loads a customer and their call history
func (s *Service) GetCustomer(ctx context.Context, requester *entities.User, customerID uuid.UUID) (*entities.Customer, []*entities.Call, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find customer: %w", err)
	}
	if customer == nil {
		return nil, nil, apperrors.ErrCustomerNotFound(customerID.String())
	}
	if !requester.IsAdmin() && requester.ID != customer.EmployeeID {
		return nil, nil, apperrors.ErrForbidden("cannot view another employee's customer")
	}

	id := customer.ID
	calls, err := s.callRepo.List(ctx, repositories.CallFilters{CustomerID: &id})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list customer calls: %w", err)
	}

	return customer, calls, nil
}

// authorizeCall loads a call and checks the requester may access it
func (s *Service) authorizeCall(ctx context.Context, requester *entities.User, callID uuid.UUID) (*entities.Call, error) {
	call, err := s.callRepo.FindByID(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("failed to find call: %w", err)
	}
	if call == nil {
		return nil, apperrors.ErrCallNotFound(callID.String())
	}
	if !requester.IsAdmin() && call.EmployeeID != requester.ID {
		return nil, apperrors.ErrForbidden("cannot access another employee's call")
	}
	return call, nil
}

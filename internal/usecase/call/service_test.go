package call

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/Jawad-Naqvi/Call-Companion1/errors"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/repositories"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
)

type fakeCallRepo struct {
	calls map[uuid.UUID]*entities.Call
}

func (r *fakeCallRepo) Create(_ context.Context, call *entities.Call) error {
	r.calls[call.ID] = call
	return nil
}

func (r *fakeCallRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Call, error) {
	call, ok := r.calls[id]
	if !ok {
		return nil, nil
	}
	light := *call
	light.AudioBytes = nil
	return &light, nil
}

func (r *fakeCallRepo) FindByIDWithAudio(_ context.Context, id uuid.UUID) (*entities.Call, error) {
	return r.calls[id], nil
}

func (r *fakeCallRepo) Update(_ context.Context, call *entities.Call) error {
	r.calls[call.ID] = call
	return nil
}

func (r *fakeCallRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entities.CallStatus) (bool, error) {
	call, ok := r.calls[id]
	if !ok || call.Status != from {
		return false, nil
	}
	call.Status = to
	return true, nil
}

func (r *fakeCallRepo) SetFlags(_ context.Context, id uuid.UUID, flags map[string]interface{}) error {
	call, ok := r.calls[id]
	if !ok {
		return nil
	}
	if v, ok := flags["has_transcript"]; ok {
		call.HasTranscript = v.(bool)
	}
	if v, ok := flags["has_ai_summary"]; ok {
		call.HasAISummary = v.(bool)
	}
	return nil
}

func (r *fakeCallRepo) List(_ context.Context, filters repositories.CallFilters) ([]*entities.Call, error) {
	var out []*entities.Call
	for _, c := range r.calls {
		if filters.EmployeeID != nil && c.EmployeeID != *filters.EmployeeID {
			continue
		}
		if filters.CustomerID != nil && c.CustomerID != *filters.CustomerID {
			continue
		}
		if filters.PhoneNumber != "" && c.PhoneNumber != filters.PhoneNumber {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCallRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.calls, id)
	return nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entities.Customer
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entities.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) FindByEmployeeAndPhone(_ context.Context, employeeID uuid.UUID, phone string) (*entities.Customer, error) {
	for _, c := range r.customers {
		if c.EmployeeID == employeeID && c.PhoneNumber == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entities.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]*entities.Customer, error) {
	var out []*entities.Customer
	for _, c := range r.customers {
		if c.EmployeeID == employeeID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeTranscriptRepo struct {
	byCall map[uuid.UUID]*entities.Transcript
}

func (r *fakeTranscriptRepo) Create(_ context.Context, transcript *entities.Transcript) error {
	r.byCall[transcript.CallID] = transcript
	return nil
}

func (r *fakeTranscriptRepo) FindByCallID(_ context.Context, callID uuid.UUID) (*entities.Transcript, error) {
	return r.byCall[callID], nil
}

func (r *fakeTranscriptRepo) DeleteByCallID(_ context.Context, callID uuid.UUID) error {
	delete(r.byCall, callID)
	return nil
}

type fakeSummaryRepo struct {
	byCall map[uuid.UUID]*entities.AISummary
}

func (r *fakeSummaryRepo) Create(_ context.Context, summary *entities.AISummary) error {
	r.byCall[summary.CallID] = summary
	return nil
}

func (r *fakeSummaryRepo) FindByCallID(_ context.Context, callID uuid.UUID) (*entities.AISummary, error) {
	return r.byCall[callID], nil
}

func (r *fakeSummaryRepo) ListByCustomer(_ context.Context, _ uuid.UUID) ([]*entities.AISummary, error) {
	return nil, nil
}

func (r *fakeSummaryRepo) DeleteByCallID(_ context.Context, callID uuid.UUID) error {
	delete(r.byCall, callID)
	return nil
}

type fakeJobRepo struct {
	jobs []*entities.ProcessingJob
}

func (r *fakeJobRepo) Create(_ context.Context, job *entities.ProcessingJob) error {
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *fakeJobRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.ProcessingJob, error) {
	for _, j := range r.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (r *fakeJobRepo) ListPending(_ context.Context, jobType entities.JobType, _ int) ([]*entities.ProcessingJob, error) {
	var out []*entities.ProcessingJob
	for _, j := range r.jobs {
		if j.Status == entities.JobStatusPending && j.JobType == jobType {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Claim(_ context.Context, id uuid.UUID) (bool, error) {
	for _, j := range r.jobs {
		if j.ID == id && j.Status == entities.JobStatusPending {
			j.MarkAsRunning()
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeJobRepo) MarkCompleted(_ context.Context, id uuid.UUID) error {
	for _, j := range r.jobs {
		if j.ID == id {
			j.MarkAsCompleted()
		}
	}
	return nil
}

func (r *fakeJobRepo) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	for _, j := range r.jobs {
		if j.ID == id {
			j.MarkAsFailed(errMsg)
		}
	}
	return nil
}

func (r *fakeJobRepo) RequeueStale(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeObjectStore struct {
	objects    map[string][]byte
	uploadErr  error
	getErr     error
	deleteErr  error
	presignErr error
	uploads    int
	deletions  int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) UploadAudio(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[objectKey] = data
	s.uploads++
	return nil
}

func (s *fakeObjectStore) DownloadAudio(_ context.Context, objectKey string) (io.ReadCloser, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	data, ok := s.objects[objectKey]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (s *fakeObjectStore) PresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://minio.local/" + objectKey, nil
}

func (s *fakeObjectStore) DeleteAudio(_ context.Context, objectKey string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, objectKey)
	s.deletions++
	return nil
}

type testEnv struct {
	svc       *Service
	calls     *fakeCallRepo
	customers *fakeCustomerRepo
	jobs      *fakeJobRepo
	store     *fakeObjectStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	calls := &fakeCallRepo{calls: make(map[uuid.UUID]*entities.Call)}
	customers := &fakeCustomerRepo{customers: make(map[uuid.UUID]*entities.Customer)}
	transcripts := &fakeTranscriptRepo{byCall: make(map[uuid.UUID]*entities.Transcript)}
	summaries := &fakeSummaryRepo{byCall: make(map[uuid.UUID]*entities.AISummary)}
	jobs := &fakeJobRepo{}
	store := newFakeObjectStore()
	aiCfg := &config.AIConfig{TranscriptionEnabled: true, SummaryEnabled: true}

	svc := NewService(calls, customers, transcripts, summaries, jobs, store, aiCfg, zap.NewNop())
	return &testEnv{svc: svc, calls: calls, customers: customers, jobs: jobs, store: store}
}

func testEmployee() *entities.User {
	return entities.NewUser("emp@example.com", "hash", "Employee")
}

func testAdmin() *entities.User {
	admin := entities.NewUser("admin@example.com", "hash", "Admin")
	admin.Role = entities.RoleAdmin
	return admin
}

func uploadRequest(endedAt *time.Time) *UploadRequest {
	return &UploadRequest{
		PhoneNumber: "+15550001111",
		Type:        entities.CallTypeOutgoing,
		StartedAt:   time.Now().Add(-5 * time.Minute),
		EndedAt:     endedAt,
		Audio:       []byte("fake-audio"),
		Filename:    "call.m4a",
		ContentType: "audio/mp4",
	}
}

func TestUpload_CreatesCallAndCustomer(t *testing.T) {
	env := newTestEnv(t)
	employee := testEmployee()
	endedAt := time.Now()

	result, err := env.svc.Upload(context.Background(), employee, uploadRequest(&endedAt))
	require.NoError(t, err)

	assert.Equal(t, entities.CallStatusCompleted, result.Call.Status)
	assert.True(t, result.Call.StoredObject)
	assert.True(t, result.Call.StoredInline)
	assert.Equal(t, 1, result.Customer.TotalCalls)
	assert.Equal(t, 1, env.store.uploads)

	// Completed upload with audio enqueues transcription
	require.Len(t, env.jobs.jobs, 1)
	assert.Equal(t, entities.JobTypeTranscription, env.jobs.jobs[0].JobType)
}

func TestUpload_SamePhoneReusesCustomer(t *testing.T) {
	env := newTestEnv(t)
	employee := testEmployee()
	endedAt := time.Now()
	ctx := context.Background()

	first, err := env.svc.Upload(ctx, employee, uploadRequest(&endedAt))
	require.NoError(t, err)

	second, err := env.svc.Upload(ctx, employee, uploadRequest(&endedAt))
	require.NoError(t, err)

	assert.Equal(t, first.Customer.ID, second.Customer.ID)
	assert.Equal(t, 2, second.Customer.TotalCalls)
	assert.Len(t, env.customers.customers, 1)
}

func TestUpload_ObjectStoreDownKeepsInlineCopy(t *testing.T) {
	env := newTestEnv(t)
	env.store.uploadErr = errors.New("connection refused")
	endedAt := time.Now()

	result, err := env.svc.Upload(context.Background(), testEmployee(), uploadRequest(&endedAt))
	require.NoError(t, err)

	assert.False(t, result.Call.StoredObject)
	assert.True(t, result.Call.StoredInline)
	assert.Empty(t, result.Call.AudioObjectKey)
}

func TestUpload_FailedUploadDoesNotCountCall(t *testing.T) {
	env := newTestEnv(t)
	env.store.uploadErr = errors.New("connection refused")
	endedAt := time.Now()

	// Too large for the inline copy, so with the object store down
	// neither copy lands and the upload fails outright
	req := uploadRequest(&endedAt)
	req.Audio = make([]byte, maxInlineAudioBytes+1)

	_, err := env.svc.Upload(context.Background(), testEmployee(), req)
	require.Error(t, err)

	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_CALL_UPLOAD_FAILED, appErr.Code)

	// No call row, and whatever customer row exists counts no calls
	assert.Empty(t, env.calls.calls)
	for _, customer := range env.customers.customers {
		assert.Equal(t, 0, customer.TotalCalls)
		assert.Nil(t, customer.LastCallAt)
	}
}

func TestUpload_MissingAudioRejected(t *testing.T) {
	env := newTestEnv(t)
	req := uploadRequest(nil)
	req.Audio = nil

	_, err := env.svc.Upload(context.Background(), testEmployee(), req)
	require.Error(t, err)

	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_INVALID_ARGUMENT, appErr.Code)
}

func TestGet_UnknownCallNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Get(context.Background(), testEmployee(), uuid.New())
	require.Error(t, err)

	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_CALL_NOT_FOUND, appErr.Code)
}

func TestGet_OtherEmployeeForbiddenAdminAllowed(t *testing.T) {
	env := newTestEnv(t)
	owner := testEmployee()
	endedAt := time.Now()
	ctx := context.Background()

	result, err := env.svc.Upload(ctx, owner, uploadRequest(&endedAt))
	require.NoError(t, err)

	intruder := entities.NewUser("other@example.com", "hash", "Other")
	_, err = env.svc.Get(ctx, intruder, result.Call.ID)
	require.Error(t, err)
	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_FORBIDDEN, appErr.Code)

	detail, err := env.svc.Get(ctx, testAdmin(), result.Call.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Call.ID, detail.Call.ID)
}

func TestList_EmployeeRestrictedToOwnCalls(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	endedAt := time.Now()

	owner := testEmployee()
	other := entities.NewUser("other@example.com", "hash", "Other")

	_, err := env.svc.Upload(ctx, owner, uploadRequest(&endedAt))
	require.NoError(t, err)
	otherReq := uploadRequest(&endedAt)
	otherReq.PhoneNumber = "+15550009999"
	_, err = env.svc.Upload(ctx, other, otherReq)
	require.NoError(t, err)

	// The employee filter from the request is ignored for non-admins
	otherID := other.ID
	calls, err := env.svc.List(ctx, owner, &ListRequest{EmployeeID: &otherID})
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, owner.ID, calls[0].EmployeeID)

	all, err := env.svc.List(ctx, testAdmin(), &ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStreamAudio_FallsBackToInlineCopy(t *testing.T) {
	env := newTestEnv(t)
	owner := testEmployee()
	endedAt := time.Now()
	ctx := context.Background()

	result, err := env.svc.Upload(ctx, owner, uploadRequest(&endedAt))
	require.NoError(t, err)

	env.store.getErr = errors.New("connection refused")

	stream, err := env.svc.StreamAudio(ctx, owner, result.Call.ID)
	require.NoError(t, err)
	defer stream.Reader.Close()

	data, err := io.ReadAll(stream.Reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-audio"), data)
}

func TestAudioLink_PresignsObjectCopy(t *testing.T) {
	env := newTestEnv(t)
	owner := testEmployee()
	endedAt := time.Now()
	ctx := context.Background()

	result, err := env.svc.Upload(ctx, owner, uploadRequest(&endedAt))
	require.NoError(t, err)

	url, err := env.svc.AudioLink(ctx, owner, result.Call.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local/"+result.Call.AudioObjectKey, url)
}

func TestAudioLink_InlineOnlyCallHasNoLink(t *testing.T) {
	env := newTestEnv(t)
	owner := testEmployee()
	endedAt := time.Now()
	ctx := context.Background()

	// Object store down at upload time leaves only the inline copy
	env.store.uploadErr = errors.New("connection refused")
	result, err := env.svc.Upload(ctx, owner, uploadRequest(&endedAt))
	require.NoError(t, err)

	_, err = env.svc.AudioLink(ctx, owner, result.Call.ID)
	require.Error(t, err)

	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_CALL_AUDIO_MISSING, appErr.Code)
}

func TestDelete_RemovesObjectCopy(t *testing.T) {
	env := newTestEnv(t)
	owner := testEmployee()
	endedAt := time.Now()
	ctx := context.Background()

	result, err := env.svc.Upload(ctx, owner, uploadRequest(&endedAt))
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, owner, result.Call.ID))
	assert.Empty(t, env.calls.calls)
	assert.Equal(t, 1, env.store.deletions)
}

func TestRequestTranscription_RequiresCompletedCall(t *testing.T) {
	env := newTestEnv(t)
	owner := testEmployee()
	ctx := context.Background()

	// No ended_at leaves the call in recording state
	result, err := env.svc.Upload(ctx, owner, uploadRequest(nil))
	require.NoError(t, err)

	_, err = env.svc.RequestTranscription(ctx, owner, result.Call.ID)
	require.Error(t, err)

	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_CALL_INVALID_STATE, appErr.Code)
}

func TestRequestSummary_RequiresTranscript(t *testing.T) {
	env := newTestEnv(t)
	owner := testEmployee()
	endedAt := time.Now()
	ctx := context.Background()

	result, err := env.svc.Upload(ctx, owner, uploadRequest(&endedAt))
	require.NoError(t, err)

	_, err = env.svc.RequestSummary(ctx, owner, result.Call.ID)
	require.Error(t, err)

	env.calls.calls[result.Call.ID].HasTranscript = true

	job, err := env.svc.RequestSummary(ctx, owner, result.Call.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.JobTypeSummary, job.JobType)
}

func TestGetCustomer_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := testEmployee()
	endedAt := time.Now()
	ctx := context.Background()

	result, err := env.svc.Upload(ctx, owner, uploadRequest(&endedAt))
	require.NoError(t, err)

	customer, calls, err := env.svc.GetCustomer(ctx, owner, result.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Customer.ID, customer.ID)
	require.Len(t, calls, 1)

	intruder := entities.NewUser("other@example.com", "hash", "Other")
	_, _, err = env.svc.GetCustomer(ctx, intruder, result.Customer.ID)
	require.Error(t, err)
}

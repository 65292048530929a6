package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/handler"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/repositories"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/infrastructure/cache"
	aiUsecase "github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/ai"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/auth"
	callUsecase "github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/call"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/jwt"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/validator"
)

// In-memory repositories backing the HTTP tests.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entities.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.UpdateLastLogin()
	}
	return nil
}

func (r *memUserRepo) ListEmployees(_ context.Context, companyID string) ([]*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.User
	for _, u := range r.users {
		if u.Role == entities.RoleEmployee && u.IsActive && (companyID == "" || u.CompanyID == companyID) {
			out = append(out, u)
		}
	}
	return out, nil
}

type memCallRepo struct {
	mu    sync.Mutex
	calls map[uuid.UUID]*entities.Call
}

func newMemCallRepo() *memCallRepo {
	return &memCallRepo{calls: make(map[uuid.UUID]*entities.Call)}
}

func (r *memCallRepo) Create(_ context.Context, call *entities.Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *call
	r.calls[call.ID] = &cp
	return nil
}

func (r *memCallRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.calls[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.AudioBytes = nil
	return &cp, nil
}

func (r *memCallRepo) FindByIDWithAudio(_ context.Context, id uuid.UUID) (*entities.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.calls[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCallRepo) Update(_ context.Context, call *entities.Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *call
	r.calls[call.ID] = &cp
	return nil
}

func (r *memCallRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entities.CallStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.calls[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	return true, nil
}

func (r *memCallRepo) SetFlags(_ context.Context, id uuid.UUID, flags map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.calls[id]
	if !ok {
		return nil
	}
	if v, ok := flags["has_transcript"].(bool); ok {
		c.HasTranscript = v
	}
	if v, ok := flags["has_ai_summary"].(bool); ok {
		c.HasAISummary = v
	}
	return nil
}

func (r *memCallRepo) List(_ context.Context, filters repositories.CallFilters) ([]*entities.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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
		if filters.Status != nil && c.Status != *filters.Status {
			continue
		}
		cp := *c
		cp.AudioBytes = nil
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (r *memCallRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calls, id)
	return nil
}

type memCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entities.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: make(map[uuid.UUID]*entities.Customer)}
}

func (r *memCustomerRepo) Create(_ context.Context, customer *entities.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = customer
	return nil
}

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customers[id], nil
}

func (r *memCustomerRepo) FindByEmployeeAndPhone(_ context.Context, employeeID uuid.UUID, phoneNumber string) (*entities.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.EmployeeID == employeeID && c.PhoneNumber == phoneNumber {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) Update(_ context.Context, customer *entities.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = customer
	return nil
}

func (r *memCustomerRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]*entities.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Customer
	for _, c := range r.customers {
		if c.EmployeeID == employeeID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memTranscriptRepo struct {
	mu          sync.Mutex
	transcripts map[uuid.UUID]*entities.Transcript
}

func newMemTranscriptRepo() *memTranscriptRepo {
	return &memTranscriptRepo{transcripts: make(map[uuid.UUID]*entities.Transcript)}
}

func (r *memTranscriptRepo) Create(_ context.Context, transcript *entities.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcripts[transcript.CallID] = transcript
	return nil
}

func (r *memTranscriptRepo) FindByCallID(_ context.Context, callID uuid.UUID) (*entities.Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transcripts[callID], nil
}

func (r *memTranscriptRepo) DeleteByCallID(_ context.Context, callID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.transcripts, callID)
	return nil
}

type memSummaryRepo struct {
	mu        sync.Mutex
	summaries map[uuid.UUID]*entities.AISummary
}

func newMemSummaryRepo() *memSummaryRepo {
	return &memSummaryRepo{summaries: make(map[uuid.UUID]*entities.AISummary)}
}

func (r *memSummaryRepo) Create(_ context.Context, summary *entities.AISummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[summary.CallID] = summary
	return nil
}

func (r *memSummaryRepo) FindByCallID(_ context.Context, callID uuid.UUID) (*entities.AISummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summaries[callID], nil
}

func (r *memSummaryRepo) ListByCustomer(_ context.Context, _ uuid.UUID) ([]*entities.AISummary, error) {
	return nil, nil
}

func (r *memSummaryRepo) DeleteByCallID(_ context.Context, callID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.summaries, callID)
	return nil
}

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entities.ProcessingJob
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[uuid.UUID]*entities.ProcessingJob)}
}

func (r *memJobRepo) Create(_ context.Context, job *entities.ProcessingJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
	return nil
}

func (r *memJobRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.ProcessingJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[id], nil
}

func (r *memJobRepo) ListPending(_ context.Context, jobType entities.JobType, limit int) ([]*entities.ProcessingJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ProcessingJob
	for _, j := range r.jobs {
		if j.JobType == jobType && j.Status == entities.JobStatusPending {
			out = append(out, j)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memJobRepo) Claim(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.Status != entities.JobStatusPending {
		return false, nil
	}
	j.MarkAsRunning()
	return true, nil
}

func (r *memJobRepo) MarkCompleted(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		j.MarkAsCompleted()
	}
	return nil
}

func (r *memJobRepo) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		j.MarkAsFailed(errMsg)
	}
	return nil
}

func (r *memJobRepo) RequeueStale(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *memJobRepo) pendingCount(jobType entities.JobType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, j := range r.jobs {
		if j.JobType == jobType && j.Status == entities.JobStatusPending {
			n++
		}
	}
	return n
}

type memChatRepo struct {
	mu       sync.Mutex
	messages []*entities.ChatMessage
}

func (r *memChatRepo) Create(_ context.Context, message *entities.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

func (r *memChatRepo) ListByCustomer(_ context.Context, customerID, employeeID uuid.UUID, limit int) ([]*entities.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ChatMessage
	for _, m := range r.messages {
		if m.CustomerID == customerID && m.EmployeeID == employeeID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type memObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: make(map[string][]byte)}
}

func (s *memObjectStore) UploadAudio(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = data
	return nil
}

func (s *memObjectStore) DownloadAudio(_ context.Context, objectKey string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectKey]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", objectKey)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memObjectStore) PresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectKey]; !ok {
		return "", fmt.Errorf("object not found: %s", objectKey)
	}
	return "http://minio.test/call-recordings/" + objectKey, nil
}

func (s *memObjectStore) DeleteAudio(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	return nil
}

func (s *memObjectStore) BucketInfo(_ context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{
		"bucket":        "call-recordings",
		"bucket_exists": true,
	}, nil
}

type stubGenerator struct {
	reply string
}

func (g *stubGenerator) IsConfigured() bool { return g.reply != "" }

func (g *stubGenerator) GenerateContent(_ context.Context, _ string, _ float64) (string, string, error) {
	return g.reply, "stub-model", nil
}

type testServer struct {
	e         *echo.Echo
	users     *memUserRepo
	calls     *memCallRepo
	customers *memCustomerRepo
	jobs      *memJobRepo
	store     *memObjectStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zap.NewNop()

	users := newMemUserRepo()
	calls := newMemCallRepo()
	customers := newMemCustomerRepo()
	transcripts := newMemTranscriptRepo()
	summaries := newMemSummaryRepo()
	jobs := newMemJobRepo()
	chats := &memChatRepo{}
	store := newMemObjectStore()

	memCache := cache.NewMemoryStore()
	t.Cleanup(func() { _ = memCache.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		AI: config.AIConfig{
			TranscriptionEnabled: true,
			SummaryEnabled:       true,
		},
	}

	jwtManager := jwt.NewManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	authService := auth.NewService(users, jwtManager)
	callService := callUsecase.NewService(calls, customers, transcripts, summaries, jobs, store, &cfg.AI, logger)
	generator := &stubGenerator{reply: "The customer asked about pricing."}
	chatService := aiUsecase.NewChatService(chats, summaries, customers, generator, memCache, logger)

	e := echo.New()
	e.Validator = validator.New()

	router := handler.NewRouter(
		cfg,
		authService,
		nil,
		generator,
		store,
		handler.NewAuth(authService, logger),
		handler.NewCall(callService, logger),
		handler.NewCustomer(callService, logger),
		handler.NewAI(chatService, logger),
	)
	router.Setup(e)

	return &testServer{
		e:         e,
		users:     users,
		calls:     calls,
		customers: customers,
		jobs:      jobs,
		store:     store,
	}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) doJSON(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := ts.do(req)

	var envelope map[string]interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	}
	return rec, envelope
}

func (ts *testServer) signup(t *testing.T, email, role string) string {
	t.Helper()

	rec, envelope := ts.doJSON(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    email,
		"password": "password1234",
		"name":     "Test User",
		"role":     role,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := envelope["data"].(map[string]interface{})
	token, _ := data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (ts *testServer) uploadCall(t *testing.T, token, phone string, audio []byte) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("phone_number", phone))
	require.NoError(t, w.WriteField("customer_name", "Jordan Lee"))
	require.NoError(t, w.WriteField("type", "outgoing"))
	started := time.Now().Add(-10 * time.Minute)
	require.NoError(t, w.WriteField("started_at", started.Format(time.RFC3339)))
	require.NoError(t, w.WriteField("ended_at", started.Add(5*time.Minute).Format(time.RFC3339)))
	require.NoError(t, w.WriteField("duration_sec", "300"))

	part, err := w.CreateFormFile("audio", "call.m4a")
	require.NoError(t, err)
	_, err = part.Write(audio)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/calls/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope["data"].(map[string]interface{})
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	token := ts.signup(t, "rep@example.com", "")

	rec, envelope := ts.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "rep@example.com",
		"password": "password1234",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 200, envelope["code"])

	rec, envelope = ts.doJSON(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := envelope["data"].(map[string]interface{})
	assert.Equal(t, "rep@example.com", me["email"])
	assert.Equal(t, "employee", me["role"])

	rec, _ = ts.doJSON(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.doJSON(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "rep@example.com", "")

	rec, _ := ts.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "rep@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadCall(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "rep@example.com", "")

	audio := []byte("fake audio payload")
	data := ts.uploadCall(t, token, "+15550100", audio)

	call := data["call"].(map[string]interface{})
	assert.Equal(t, "completed", call["status"])
	assert.Equal(t, true, call["stored_object"])
	assert.Equal(t, true, call["stored_inline"])

	customer := data["customer"].(map[string]interface{})
	assert.Equal(t, "+15550100", customer["phone_number"])
	assert.EqualValues(t, 1, customer["total_calls"])

	// Upload schedules transcription
	assert.Equal(t, 1, ts.jobs.pendingCount(entities.JobTypeTranscription))
}

func TestUploadCallRequiresAudio(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "rep@example.com", "")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("phone_number", "+15550100"))
	require.NoError(t, w.WriteField("type", "incoming"))
	require.NoError(t, w.WriteField("started_at", time.Now().Format(time.RFC3339)))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/calls/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := ts.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCallAndAudio(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "rep@example.com", "")

	audio := []byte("fake audio payload")
	data := ts.uploadCall(t, token, "+15550100", audio)
	callID := data["call"].(map[string]interface{})["id"].(string)

	rec, envelope := ts.doJSON(t, http.MethodGet, "/api/calls/"+callID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := envelope["data"].(map[string]interface{})
	assert.Equal(t, callID, detail["call"].(map[string]interface{})["id"])

	req := httptest.NewRequest(http.MethodGet, "/api/calls/"+callID+"/audio", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, audio, rec.Body.Bytes())
}

func TestGetCallAudioRedirectsToPresignedURL(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "rep@example.com", "")

	data := ts.uploadCall(t, token, "+15550100", []byte("fake audio payload"))
	callID := data["call"].(map[string]interface{})["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/calls/"+callID+"/audio?redirect=true", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := ts.do(req)

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get(echo.HeaderLocation)
	assert.True(t, strings.HasPrefix(location, "http://minio.test/call-recordings/"))
}

func TestGetUnknownCallReturns404(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "rep@example.com", "")

	rec, _ := ts.doJSON(t, http.MethodGet, "/api/calls/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Malformed IDs are indistinguishable from unknown calls
	rec, _ = ts.doJSON(t, http.MethodGet, "/api/calls/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallVisibilityScopedToOwner(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.signup(t, "owner@example.com", "")
	other := ts.signup(t, "other@example.com", "")
	admin := ts.signup(t, "admin@example.com", "admin")

	data := ts.uploadCall(t, owner, "+15550100", []byte("audio"))
	callID := data["call"].(map[string]interface{})["id"].(string)

	rec, _ := ts.doJSON(t, http.MethodGet, "/api/calls/"+callID, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = ts.doJSON(t, http.MethodGet, "/api/calls/"+callID, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// List never leaks another employee's calls
	rec, envelope := ts.doJSON(t, http.MethodGet, "/api/calls", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, envelope["data"].(map[string]interface{})["count"])
}

func TestDeleteCallRemovesAudio(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "rep@example.com", "")

	data := ts.uploadCall(t, token, "+15550100", []byte("audio"))
	callID := data["call"].(map[string]interface{})["id"].(string)

	rec, _ := ts.doJSON(t, http.MethodDelete, "/api/calls/"+callID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.doJSON(t, http.MethodGet, "/api/calls/"+callID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	ts.store.mu.Lock()
	remaining := len(ts.store.objects)
	ts.store.mu.Unlock()
	assert.Equal(t, 0, remaining)
}

func TestEmployeesEndpointAdminOnly(t *testing.T) {
	ts := newTestServer(t)
	employee := ts.signup(t, "rep@example.com", "")
	admin := ts.signup(t, "admin@example.com", "admin")

	rec, _ := ts.doJSON(t, http.MethodGet, "/api/auth/employees", employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, envelope := ts.doJSON(t, http.MethodGet, "/api/auth/employees", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := envelope["data"].(map[string]interface{})
	assert.EqualValues(t, 1, list["count"])
}

func TestCustomerEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "rep@example.com", "")

	ts.uploadCall(t, token, "+15550100", []byte("audio one"))
	ts.uploadCall(t, token, "+15550100", []byte("audio two"))

	rec, envelope := ts.doJSON(t, http.MethodGet, "/api/customers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := envelope["data"].(map[string]interface{})
	require.EqualValues(t, 1, list["count"])

	customerID := list["data"].([]interface{})[0].(map[string]interface{})["id"].(string)

	rec, envelope = ts.doJSON(t, http.MethodGet, "/api/customers/"+customerID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["customer"].(map[string]interface{})["total_calls"])
	assert.Len(t, data["calls"].([]interface{}), 2)
}

func TestChatEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "rep@example.com", "")

	data := ts.uploadCall(t, token, "+15550100", []byte("audio"))
	customerID := data["customer"].(map[string]interface{})["id"].(string)

	rec, envelope := ts.doJSON(t, http.MethodPost, "/api/ai/chat", token, map[string]string{
		"customer_id": customerID,
		"message":     "What did we discuss last time?",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reply := envelope["data"].(map[string]interface{})
	assert.Equal(t, "The customer asked about pricing.", reply["reply"])

	rec, envelope = ts.doJSON(t, http.MethodGet, "/api/ai/chat/"+customerID+"/messages", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := envelope["data"].(map[string]interface{})
	assert.EqualValues(t, 2, history["count"])

	rec, envelope = ts.doJSON(t, http.MethodGet, "/api/ai/ping", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := envelope["data"].(map[string]interface{})
	assert.Equal(t, true, status["configured"])
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec, envelope := ts.doJSON(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", envelope["status"])
	assert.Equal(t, "test", envelope["environment"])

	// No database behind the test router, but the model backend and
	// object store are wired in
	assert.Equal(t, false, envelope["database_connected"])
	assert.Equal(t, true, envelope["gemini_api_configured"])
	storage := envelope["storage"].(map[string]interface{})
	assert.Equal(t, "call-recordings", storage["bucket"])
	assert.Equal(t, true, storage["bucket_exists"])
}

func TestErrorEnvelopeShape(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "rep@example.com", "")

	rec, envelope := ts.doJSON(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    "rep@example.com",
		"password": "password1234",
		"name":     "Duplicate",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotNil(t, envelope["code"])
	msg, _ := envelope["message"].(string)
	assert.True(t, strings.Contains(strings.ToLower(msg), "exist"))
}

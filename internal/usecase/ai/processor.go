package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/repositories"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/infrastructure/cache"
	pkgai "github.com/Jawad-Naqvi/Call-Companion1/pkg/ai"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/jobcontext"
)

const (
	transcriptProvider = "openai-whisper"

	// staleJobAge is how long a running job may go untouched before the
	// sweeper requeues it
	staleJobAge = 10 * time.Minute

	// jobBatchSize is how many pending jobs a worker pulls per poll
	jobBatchSize = 5
)

// Transcriber converts audio into text
type Transcriber interface {
	IsConfigured() bool
	Transcribe(ctx context.Context, audio io.Reader, filename, contentType string) (*pkgai.TranscriptionResult, error)
}

// AudioSource reads stored call recordings
type AudioSource interface {
	DownloadAudio(ctx context.Context, objectKey string) (io.ReadCloser, error)
}

// Processor runs the background transcription and summary pipeline
type Processor struct {
	callRepo       repositories.CallRepository
	transcriptRepo repositories.TranscriptRepository
	summaryRepo    repositories.SummaryRepository
	jobRepo        repositories.JobRepository
	audio          AudioSource
	transcriber    Transcriber
	generator      TextGenerator
	parser         *Parser
	cache          cache.Store
	cfg            *config.AIConfig
	logger         *zap.Logger

	workerStopChan chan struct{}
	workerWg       sync.WaitGroup
	running        bool
	mu             sync.Mutex
}

// NewProcessor creates a new background processor
func NewProcessor(
	callRepo repositories.CallRepository,
	transcriptRepo repositories.TranscriptRepository,
	summaryRepo repositories.SummaryRepository,
	jobRepo repositories.JobRepository,
	audio AudioSource,
	transcriber Transcriber,
	generator TextGenerator,
	cacheStore cache.Store,
	cfg *config.AIConfig,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		callRepo:       callRepo,
		transcriptRepo: transcriptRepo,
		summaryRepo:    summaryRepo,
		jobRepo:        jobRepo,
		audio:          audio,
		transcriber:    transcriber,
		generator:      generator,
		parser:         NewParser(),
		cache:          cacheStore,
		cfg:            cfg,
		logger:         logger,
	}
}

// StartWorkerPool starts background workers for transcription and summary jobs
func (p *Processor) StartWorkerPool(ctx context.Context, workerCount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("worker pool already running")
	}

	if workerCount <= 0 {
		workerCount = 1
	}

	p.running = true
	p.workerStopChan = make(chan struct{})

	p.logger.Info("🚀 Starting AI worker pool",
		zap.Int("worker_count", workerCount),
		zap.Duration("poll_interval", p.cfg.PollInterval))

	for i := 0; i < workerCount; i++ {
		p.workerWg.Add(1)
		go p.jobWorker(ctx, i, entities.JobTypeTranscription)

		p.workerWg.Add(1)
		go p.jobWorker(ctx, i, entities.JobTypeSummary)
	}

	p.workerWg.Add(1)
	go p.staleJobSweeper(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (p *Processor) StopWorkerPool() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return fmt.Errorf("worker pool not running")
	}

	p.logger.Info("🛑 Stopping AI worker pool...")

	close(p.workerStopChan)
	p.workerWg.Wait()
	p.running = false

	p.logger.Info("✅ AI worker pool stopped")
	return nil
}

// jobWorker polls for pending jobs of one type and processes them
func (p *Processor) jobWorker(parentCtx context.Context, workerID int, jobType entities.JobType) {
	defer p.workerWg.Done()

	interval := p.cfg.PollInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.logger.Info("👷 Worker started",
		zap.Int("worker_id", workerID),
		zap.String("job_type", string(jobType)))

	for {
		select {
		case <-p.workerStopChan:
			p.logger.Info("👷 Worker stopping",
				zap.Int("worker_id", workerID),
				zap.String("job_type", string(jobType)))
			return

		case <-ticker.C:
			jobs, err := p.jobRepo.ListPending(parentCtx, jobType, jobBatchSize)
			if err != nil {
				p.logger.Error("❌ Failed to poll jobs",
					zap.Int("worker_id", workerID), zap.Error(err))
				continue
			}

			for _, job := range jobs {
				// Only one worker wins the claim when several poll the same job
				claimed, err := p.jobRepo.Claim(parentCtx, job.ID)
				if err != nil {
					p.logger.Error("❌ Failed to claim job",
						zap.String("job_id", job.ID.String()), zap.Error(err))
					continue
				}
				if !claimed {
					continue
				}

				p.logger.Info("👷 Worker claimed job",
					zap.Int("worker_id", workerID),
					zap.String("job_id", job.ID.String()),
					zap.String("call_id", job.CallID.String()),
					zap.String("job_type", string(jobType)))

				p.runJob(parentCtx, workerID, job)
			}
		}
	}
}

// runJob executes one claimed job with timeout and retry handling
func (p *Processor) runJob(parentCtx context.Context, workerID int, job *entities.ProcessingJob) {
	jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, string(job.JobType), workerID)
	defer cancel()

	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		switch job.JobType {
		case entities.JobTypeTranscription:
			return p.processTranscription(ctx, job)
		case entities.JobTypeSummary:
			return p.processSummary(ctx, job)
		default:
			return fmt.Errorf("unknown job type: %s", job.JobType)
		}
	})

	if err != nil {
		p.logger.Error("❌ Job failed after retries",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.JobType)),
			zap.Error(err))

		if markErr := p.jobRepo.MarkFailed(parentCtx, job.ID, err.Error()); markErr != nil {
			p.logger.Error("failed to mark job as failed", zap.Error(markErr))
		}
		p.handleJobFailure(parentCtx, job)
		return
	}

	p.logger.Info("✅ Job completed successfully",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.JobType)))

	if err := p.jobRepo.MarkCompleted(parentCtx, job.ID); err != nil {
		p.logger.Error("failed to mark job as completed", zap.Error(err))
	}
}

// handleJobFailure settles the call after a job has exhausted its retries.
// A failed transcription fails the call; a failed summary leaves the
// transcript usable and the call still moves to analyzed.
func (p *Processor) handleJobFailure(ctx context.Context, job *entities.ProcessingJob) {
	switch job.JobType {
	case entities.JobTypeTranscription:
		if _, err := p.callRepo.UpdateStatus(ctx, job.CallID, entities.CallStatusTranscribing, entities.CallStatusFailed); err != nil {
			p.logger.Error("failed to fail call after transcription failure", zap.Error(err))
		}
		if _, err := p.callRepo.UpdateStatus(ctx, job.CallID, entities.CallStatusCompleted, entities.CallStatusFailed); err != nil {
			p.logger.Error("failed to fail call after transcription failure", zap.Error(err))
		}

	case entities.JobTypeSummary:
		if _, err := p.callRepo.UpdateStatus(ctx, job.CallID, entities.CallStatusTranscribing, entities.CallStatusAnalyzed); err != nil {
			p.logger.Error("failed to settle call after summary failure", zap.Error(err))
		}
	}
}

// processTranscription transcribes a call recording and stores the transcript
func (p *Processor) processTranscription(ctx context.Context, job *entities.ProcessingJob) error {
	if !p.transcriber.IsConfigured() {
		return fmt.Errorf("transcription provider not configured")
	}

	call, err := p.callRepo.FindByID(ctx, job.CallID)
	if err != nil {
		return fmt.Errorf("failed to load call: %w", err)
	}
	if call == nil {
		return fmt.Errorf("call %s not found", job.CallID)
	}

	moved, err := p.callRepo.UpdateStatus(ctx, call.ID, entities.CallStatusCompleted, entities.CallStatusTranscribing)
	if err != nil {
		return fmt.Errorf("failed to move call to transcribing: %w", err)
	}
	// A requeued job finds the call already transcribing; anything else is a stale job
	if !moved && call.Status != entities.CallStatusTranscribing {
		return fmt.Errorf("call %s is in state %s, cannot transcribe", call.ID, call.Status)
	}

	p.logger.Info("🎙️ Submitting audio for transcription",
		zap.String("call_id", call.ID.String()),
		zap.Int64("audio_size", call.AudioSize))

	var result *pkgai.TranscriptionResult
	submitFn := func() error {
		// The audio reader is consumed on each attempt, reopen it
		attemptReader, attemptName, openErr := p.openAudio(ctx, call)
		if openErr != nil {
			return backoff.Permanent(openErr)
		}
		defer attemptReader.Close()

		r, transcribeErr := p.transcriber.Transcribe(ctx, attemptReader, attemptName, call.AudioMime)
		if transcribeErr != nil {
			return transcribeErr
		}
		result = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 90 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	// Replace any previous transcript so retries stay idempotent
	if err := p.transcriptRepo.DeleteByCallID(ctx, call.ID); err != nil {
		return fmt.Errorf("failed to clear previous transcript: %w", err)
	}

	transcript := entities.NewTranscript(call.ID, result.Text, transcriptProvider)
	transcript.Language = result.Language
	if err := p.transcriptRepo.Create(ctx, transcript); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	if err := p.callRepo.SetFlags(ctx, call.ID, map[string]interface{}{"has_transcript": true}); err != nil {
		return fmt.Errorf("failed to flag transcript: %w", err)
	}

	p.logger.Info("✅ Transcript saved",
		zap.String("call_id", call.ID.String()),
		zap.Int("text_length", len(result.Text)))

	if p.cfg.SummaryEnabled && p.generator.IsConfigured() {
		if err := p.jobRepo.Create(ctx, entities.NewProcessingJob(call.ID, entities.JobTypeSummary)); err != nil {
			p.logger.Warn("failed to enqueue summary job",
				zap.String("call_id", call.ID.String()), zap.Error(err))
		}
		return nil
	}

	// No summary stage, the transcript alone finishes the pipeline
	if _, err := p.callRepo.UpdateStatus(ctx, call.ID, entities.CallStatusTranscribing, entities.CallStatusAnalyzed); err != nil {
		return fmt.Errorf("failed to finish call: %w", err)
	}
	return nil
}

// openAudio opens the recording, preferring the object store copy
func (p *Processor) openAudio(ctx context.Context, call *entities.Call) (io.ReadCloser, string, error) {
	filename := path.Base(call.AudioObjectKey)
	if filename == "" || filename == "." {
		filename = "audio.m4a"
	}

	if call.StoredObject {
		reader, err := p.audio.DownloadAudio(ctx, call.AudioObjectKey)
		if err == nil {
			return reader, filename, nil
		}
		p.logger.Warn("object store read failed, trying inline copy",
			zap.String("call_id", call.ID.String()), zap.Error(err))
	}

	if call.StoredInline {
		full, err := p.callRepo.FindByIDWithAudio(ctx, call.ID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load inline audio: %w", err)
		}
		if full != nil && len(full.AudioBytes) > 0 {
			return io.NopCloser(bytes.NewReader(full.AudioBytes)), filename, nil
		}
	}

	return nil, "", fmt.Errorf("no audio available for call %s", call.ID)
}

// processSummary generates a structured summary from a call transcript
func (p *Processor) processSummary(ctx context.Context, job *entities.ProcessingJob) error {
	if !p.generator.IsConfigured() {
		return fmt.Errorf("summary provider not configured")
	}

	call, err := p.callRepo.FindByID(ctx, job.CallID)
	if err != nil {
		return fmt.Errorf("failed to load call: %w", err)
	}
	if call == nil {
		return fmt.Errorf("call %s not found", job.CallID)
	}

	transcript, err := p.transcriptRepo.FindByCallID(ctx, call.ID)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}
	if transcript == nil {
		return fmt.Errorf("transcript not found for call %s", call.ID)
	}

	prompt := buildSummaryPrompt(call, transcript.FullText)

	p.logger.Info("🤖 Generating call summary",
		zap.String("call_id", call.ID.String()),
		zap.Int("transcript_length", len(transcript.FullText)))

	var raw, model string
	submitFn := func() error {
		r, m, genErr := p.generator.GenerateContent(ctx, prompt, 0.3)
		if genErr != nil {
			return genErr
		}
		raw, model = r, m
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 60 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("summary generation failed: %w", err)
	}

	result, err := p.parser.ParseSummaryResponse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse summary response: %w", err)
	}

	summary := entities.NewAISummary(call.ID, result.Summary)
	summary.Sentiment = result.Sentiment
	summary.SentimentScore = result.SentimentScore
	summary.RawResponse = raw
	summary.Model = model

	if data, err := json.Marshal(result.Highlights); err == nil {
		summary.Highlights = datatypes.JSON(data)
	}
	if data, err := json.Marshal(result.NextSteps); err == nil {
		summary.NextSteps = datatypes.JSON(data)
	}
	if data, err := json.Marshal(result.Concerns); err == nil {
		summary.Concerns = datatypes.JSON(data)
	}

	// Replace any previous summary so retries stay idempotent
	if err := p.summaryRepo.DeleteByCallID(ctx, call.ID); err != nil {
		return fmt.Errorf("failed to clear previous summary: %w", err)
	}
	if err := p.summaryRepo.Create(ctx, summary); err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}

	if err := p.callRepo.SetFlags(ctx, call.ID, map[string]interface{}{"has_ai_summary": true}); err != nil {
		return fmt.Errorf("failed to flag summary: %w", err)
	}

	if _, err := p.callRepo.UpdateStatus(ctx, call.ID, entities.CallStatusTranscribing, entities.CallStatusAnalyzed); err != nil {
		return fmt.Errorf("failed to finish call: %w", err)
	}

	// The cached chat context is stale now
	if err := p.cache.Delete(ctx, contextCacheKey(call.CustomerID)); err != nil {
		p.logger.Warn("failed to invalidate chat context", zap.Error(err))
	}

	p.logger.Info("✅ Call summary saved",
		zap.String("call_id", call.ID.String()),
		zap.String("sentiment", summary.Sentiment),
		zap.String("model", model))

	return nil
}

// staleJobSweeper requeues jobs whose worker died mid-run
func (p *Processor) staleJobSweeper(parentCtx context.Context) {
	defer p.workerWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-p.workerStopChan:
			return

		case <-ticker.C:
			n, err := p.jobRepo.RequeueStale(parentCtx, time.Now().Add(-staleJobAge))
			if err != nil {
				p.logger.Error("❌ Failed to requeue stale jobs", zap.Error(err))
				continue
			}
			if n > 0 {
				p.logger.Warn("🧹 Requeued stale jobs", zap.Int64("count", n))
			}
		}
	}
}

// buildSummaryPrompt asks the model for a structured JSON analysis of a sales call
func buildSummaryPrompt(call *entities.Call, transcript string) string {
	if len(transcript) > maxContextChars {
		transcript = transcript[:maxContextChars]
	}

	return fmt.Sprintf(`You are analyzing a recorded sales call with customer %s (%s call, %d seconds).

Transcript:
%s

Respond with ONLY a JSON object in this exact shape:
{
  "summary": "2-4 sentence summary of the call",
  "highlights": ["key moment or fact", "..."],
  "sentiment": "positive | neutral | negative",
  "sentiment_score": 0.0,
  "next_steps": ["agreed follow-up", "..."],
  "concerns": ["objection or risk raised by the customer", "..."]
}

sentiment_score is between -1.0 (very negative) and 1.0 (very positive). Do not add any text outside the JSON object.`,
		call.CustomerName, call.Type, call.DurationSec, transcript)
}

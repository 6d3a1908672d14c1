package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"intervia-backend/internal/interview"
	"intervia-backend/internal/models"
	"intervia-backend/internal/repository"
	"intervia-backend/internal/services"
)

// Pool runs the oracle jobs queued over Redis. Results are applied to the
// live session through its guarded methods, so a response that arrives after
// the session moved on (or ended) is discarded instead of corrupting state.
type Pool struct {
	redis         *redis.Client
	gemini        *services.GeminiService
	fallback      *services.FallbackService
	manager       *interview.Manager
	jobRepo       *repository.JobRepo
	sessionRepo   *repository.SessionRepo
	candidateRepo *repository.CandidateRepo
	workerCount   int
	stopChan      chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	gemini *services.GeminiService,
	fallback *services.FallbackService,
	manager *interview.Manager,
	jobRepo *repository.JobRepo,
	sessionRepo *repository.SessionRepo,
	candidateRepo *repository.CandidateRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:         redisClient,
		gemini:        gemini,
		fallback:      fallback,
		manager:       manager,
		jobRepo:       jobRepo,
		sessionRepo:   sessionRepo,
		candidateRepo: candidateRepo,
		workerCount:   workerCount,
		stopChan:      make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{
		"queue:" + models.JobTypeQuestionGeneration,
		"queue:" + models.JobTypeAnswerEvaluation,
		"queue:" + models.JobTypeSummaryGeneration,
		"queue:" + models.JobTypeResumeExtraction,
	}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

// Enqueue persists a job row and pushes it onto its queue.
func (p *Pool) Enqueue(ctx context.Context, job *models.Job) error {
	if err := p.jobRepo.Create(ctx, job); err != nil {
		return fmt.Errorf("failed to persist job: %w", err)
	}
	jobBytes, _ := json.Marshal(job)
	return p.redis.LPush(ctx, jobQueueName(job.Type), string(jobBytes)).Err()
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)

		p.jobRepo.UpdateStatus(ctx, job.ID, "processing")

		var processErr error
		switch job.Type {
		case models.JobTypeQuestionGeneration:
			processErr = p.processQuestion(ctx, &job)
		case models.JobTypeAnswerEvaluation:
			processErr = p.processEvaluation(ctx, &job)
		case models.JobTypeSummaryGeneration:
			processErr = p.processSummary(ctx, &job)
		case models.JobTypeResumeExtraction:
			processErr = p.processResume(ctx, &job)
		default:
			processErr = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if processErr != nil {
			p.handleFailure(ctx, &job, processErr)
		} else {
			p.handleSuccess(ctx, &job)
		}

		// Release lock
		p.redis.Del(ctx, lockKey)
	}
}

type questionJobConfig struct {
	SessionID      uuid.UUID `json:"session_id"`
	QuestionNumber int       `json:"question_number"`
}

type evaluationJobConfig struct {
	SessionID      uuid.UUID `json:"session_id"`
	QuestionNumber int       `json:"question_number"`
	Answer         string    `json:"answer"`
}

type summaryJobConfig struct {
	SessionID uuid.UUID `json:"session_id"`
}

type resumeJobConfig struct {
	CandidateID uuid.UUID `json:"candidate_id"`
}

func (p *Pool) processQuestion(ctx context.Context, job *models.Job) error {
	var config questionJobConfig
	json.Unmarshal(job.ConfigJSON, &config)

	session, ok := p.manager.Get(config.SessionID)
	if !ok {
		// Session ended while the job waited in the queue. Not an error.
		log.Printf("Dropping question job %s: session %s no longer live", job.ID, config.SessionID)
		return nil
	}

	snap := session.Snapshot()
	jobDesc, resumeText, previous := session.PromptContext()

	spec, err := p.gemini.GenerateQuestion(ctx, services.QuestionPrompt{
		InterviewType:     snap.Config.InterviewType,
		Difficulty:        snap.Config.Difficulty,
		QuestionNumber:    config.QuestionNumber,
		TotalQuestions:    snap.Config.TotalQuestions,
		JobDescription:    jobDesc,
		ResumeText:        resumeText,
		PreviousQuestions: previous,
	})
	if err != nil {
		return err
	}

	p.applyQuestion(ctx, job, session, config.QuestionNumber, spec)
	return nil
}

// applyQuestion commits a generated question through the session's stale
// guard and notifies the client on success.
func (p *Pool) applyQuestion(ctx context.Context, job *models.Job, session *interview.Session, number int, spec interview.QuestionSpec) {
	if !session.ApplyQuestion(number, spec) {
		log.Printf("Discarding stale question response for session %s position %d", session.ID(), number)
		return
	}

	p.gemini.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "question_ready",
		Payload: models.QuestionReadyEvent{
			SessionID:      session.ID(),
			QuestionNumber: number,
			Question:       spec.Text,
		},
	})
}

func (p *Pool) processEvaluation(ctx context.Context, job *models.Job) error {
	var config evaluationJobConfig
	json.Unmarshal(job.ConfigJSON, &config)

	session, ok := p.manager.Get(config.SessionID)
	if !ok {
		log.Printf("Dropping evaluation job %s: session %s no longer live", job.ID, config.SessionID)
		return nil
	}

	question, found := session.Question(config.QuestionNumber)
	if !found {
		return fmt.Errorf("question %d not found in session %s", config.QuestionNumber, config.SessionID)
	}

	snap := session.Snapshot()
	eval, err := p.gemini.EvaluateAnswer(ctx, question.Text, config.Answer, snap.Config.InterviewType, snap.Config.Difficulty)
	if err != nil {
		return err
	}

	p.applyEvaluation(ctx, job, session, config.QuestionNumber, config.Answer, eval)
	return nil
}

// applyEvaluation commits a verdict unless the answer was edited after the
// job was queued; the re-evaluation job for the newer text supersedes it.
func (p *Pool) applyEvaluation(ctx context.Context, job *models.Job, session *interview.Session, number int, answer string, eval models.AnswerEvaluation) {
	if !session.ApplyEvaluation(number, answer, eval) {
		log.Printf("Discarding stale evaluation for session %s question %d", session.ID(), number)
		return
	}

	p.gemini.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "evaluation_ready",
		Payload: models.EvaluationReadyEvent{
			SessionID:      session.ID(),
			QuestionNumber: number,
			Evaluation:     eval,
		},
	})
}

func (p *Pool) processSummary(ctx context.Context, job *models.Job) error {
	var config summaryJobConfig
	json.Unmarshal(job.ConfigJSON, &config)

	session, ok := p.manager.Get(config.SessionID)
	if !ok {
		log.Printf("Dropping summary job %s: session %s no longer live", job.ID, config.SessionID)
		return nil
	}

	snap := session.Snapshot()
	report, err := p.gemini.GenerateReport(ctx, snap.Questions, snap.Config.InterviewType, snap.Config.Difficulty, snap.Progress.AverageScore)
	if err != nil {
		return err
	}

	p.applyReport(ctx, job, session, report)
	return nil
}

// applyReport attaches the assessment, persists the final row and retires
// the session from the live set.
func (p *Pool) applyReport(ctx context.Context, job *models.Job, session *interview.Session, report models.InterviewReport) {
	if !session.ApplyReport(report) {
		log.Printf("Discarding report for session %s: not completed", session.ID())
		return
	}

	record := session.Record()
	if err := p.sessionRepo.UpdateStatus(ctx, &record); err != nil {
		log.Printf("Failed to persist final session %s: %v", session.ID(), err)
	}
	p.manager.Remove(session.ID())

	p.gemini.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "summary_ready",
		Payload: models.SummaryReadyEvent{
			SessionID: session.ID(),
			Report:    report,
		},
	})
}

func (p *Pool) processResume(ctx context.Context, job *models.Job) error {
	var config resumeJobConfig
	json.Unmarshal(job.ConfigJSON, &config)

	candidate, err := p.candidateRepo.GetByID(ctx, config.CandidateID)
	if err != nil {
		return fmt.Errorf("failed to get candidate: %w", err)
	}

	fields, err := p.gemini.ExtractResumeFields(ctx, candidate.RawText)
	if err != nil {
		return err
	}

	if err := p.candidateRepo.UpdateFields(ctx, candidate.ID, fields); err != nil {
		return fmt.Errorf("failed to save extracted fields: %w", err)
	}

	p.gemini.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type:    "resume_ready",
		Payload: map[string]interface{}{"candidate_id": candidate.ID, "fields": fields},
	})
	return nil
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job) {
	p.jobRepo.UpdateStatus(ctx, job.ID, "completed")
	log.Printf("Job %s completed successfully", job.ID)
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	job.RetryCount++
	errMsg := err.Error()

	if job.RetryCount < 3 {
		// Re-queue with backoff
		log.Printf("Job %s failed (attempt %d): %s, retrying", job.ID, job.RetryCount, errMsg)
		p.jobRepo.UpdateStatus(ctx, job.ID, "pending")
		p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

		jobBytes, _ := json.Marshal(job)
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		time.AfterFunc(backoff, func() {
			p.redis.LPush(context.Background(), jobQueueName(job.Type), string(jobBytes))
		})
		return
	}

	// Max retries reached. The interview must keep moving, so the canned
	// fallback stands in for the oracle.
	log.Printf("Job %s failed permanently: %s", job.ID, errMsg)
	p.jobRepo.UpdateStatus(ctx, job.ID, "failed")
	p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)
	p.applyTerminalFallback(ctx, job)

	p.gemini.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "error",
		Payload: models.ErrorEvent{
			JobID:        job.ID,
			ErrorCode:    "JOB_FAILED",
			ErrorMessage: errMsg,
		},
	})
}

func (p *Pool) applyTerminalFallback(ctx context.Context, job *models.Job) {
	switch job.Type {
	case models.JobTypeQuestionGeneration:
		var config questionJobConfig
		json.Unmarshal(job.ConfigJSON, &config)
		session, ok := p.manager.Get(config.SessionID)
		if !ok {
			return
		}
		snap := session.Snapshot()
		_, _, previous := session.PromptContext()
		spec := p.fallback.Question(snap.Config.InterviewType, config.QuestionNumber, previous)
		p.applyQuestion(ctx, job, session, config.QuestionNumber, spec)

	case models.JobTypeAnswerEvaluation:
		var config evaluationJobConfig
		json.Unmarshal(job.ConfigJSON, &config)
		session, ok := p.manager.Get(config.SessionID)
		if !ok {
			return
		}
		p.applyEvaluation(ctx, job, session, config.QuestionNumber, config.Answer, p.fallback.Evaluation())

	case models.JobTypeSummaryGeneration:
		var config summaryJobConfig
		json.Unmarshal(job.ConfigJSON, &config)
		session, ok := p.manager.Get(config.SessionID)
		if !ok {
			return
		}
		snap := session.Snapshot()
		p.applyReport(ctx, job, session, p.fallback.Report(snap.Progress.AverageScore))
	}
}

func jobQueueName(jobType string) string {
	return "queue:" + jobType
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Async oracle job types.
const (
	JobTypeQuestionGeneration = "question-generation"
	JobTypeAnswerEvaluation   = "answer-evaluation"
	JobTypeSummaryGeneration  = "summary-generation"
	JobTypeResumeExtraction   = "resume-extraction"
)

type Job struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Type         string          `json:"type"`
	ReferenceID  uuid.UUID       `json:"reference_id"` // session or candidate the job belongs to
	ConfigJSON   json.RawMessage `json:"config"`
	Status       string          `json:"status"` // "pending" | "processing" | "completed" | "failed"
	RetryCount   int             `json:"retry_count"`
	MaxRetries   int             `json:"max_retries"`
	ErrorMessage *string         `json:"error_message"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
}

// WebSocket message types

// UserUpdatesChannel names the Redis pub/sub channel carrying a user's
// websocket events. Workers publish to it; the hub subscribes per user.
func UserUpdatesChannel(userID uuid.UUID) string {
	return "user_updates:" + userID.String()
}

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type QuestionReadyEvent struct {
	SessionID      uuid.UUID `json:"session_id"`
	QuestionNumber int       `json:"question_number"`
	Question       string    `json:"question"`
}

type EvaluationReadyEvent struct {
	SessionID      uuid.UUID        `json:"session_id"`
	QuestionNumber int              `json:"question_number"`
	Evaluation     AnswerEvaluation `json:"evaluation"`
}

type SummaryReadyEvent struct {
	SessionID uuid.UUID       `json:"session_id"`
	Report    InterviewReport `json:"report"`
}

type TimerExpiredEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	TimerID   string    `json:"timer_id"` // "question" | "overall"
}

type SessionCompletedEvent struct {
	SessionID  uuid.UUID `json:"session_id"`
	FinalScore int       `json:"final_score"`
}

type ErrorEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
}

// API Error response

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

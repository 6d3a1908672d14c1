package models

import (
	"time"

	"github.com/google/uuid"
)

// Session lifecycle statuses. Completed and cancelled are terminal.
const (
	SessionStatusActive    = "active"
	SessionStatusPaused    = "paused"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

// Interview types and difficulty levels accepted at session start.
const (
	InterviewTypeTechnical  = "technical"
	InterviewTypeBehavioral = "behavioral"
	InterviewTypeMixed      = "mixed"

	DifficultyJunior = "junior"
	DifficultyMid    = "mid"
	DifficultySenior = "senior"
)

// InterviewSession is the durable record of one interview attempt.
// The live ledger/transcript/timers are in-memory only; this row is what
// survives into the history list.
type InterviewSession struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	CandidateName    *string    `json:"candidate_name,omitempty"`
	InterviewType    string     `json:"interview_type"`
	Difficulty       string     `json:"difficulty"`
	TotalQuestions   int        `json:"total_questions"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	FinalScore       *int       `json:"final_score,omitempty"`
	SummaryJSON      []byte     `json:"summary,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// InterviewConfig is the typed, validated session-start configuration.
// Every recognized option is enumerated here; defaults are applied by
// ApplyDefaults before validation.
type InterviewConfig struct {
	InterviewType       string `json:"interview_type" validate:"required,oneof=technical behavioral mixed"`
	Difficulty          string `json:"difficulty" validate:"required,oneof=junior mid senior"`
	TotalQuestions      int    `json:"total_questions" validate:"required,min=1,max=20"`
	TimeLimitMinutes    int    `json:"time_limit_minutes" validate:"required,min=1,max=180"`
	QuestionTimeSeconds int    `json:"question_time_seconds" validate:"omitempty,min=10,max=3600"`
}

// ApplyDefaults fills unset fields with the defaults the original product used.
func (c *InterviewConfig) ApplyDefaults() {
	if c.InterviewType == "" {
		c.InterviewType = InterviewTypeTechnical
	}
	if c.Difficulty == "" {
		c.Difficulty = DifficultyMid
	}
	if c.TotalQuestions == 0 {
		c.TotalQuestions = 10
	}
	if c.TimeLimitMinutes == 0 {
		c.TimeLimitMinutes = 30
	}
	if c.QuestionTimeSeconds == 0 {
		c.QuestionTimeSeconds = 180
	}
}

// StartInterviewRequest is the session-start payload.
type StartInterviewRequest struct {
	Config         InterviewConfig `json:"config"`
	JobDescription string          `json:"job_description" validate:"required,min=10"`
	CandidateID    *uuid.UUID      `json:"candidate_id,omitempty"`
}

// SubmitAnswerRequest records or edits the answer for one question.
type SubmitAnswerRequest struct {
	QuestionNumber int    `json:"question_number" validate:"required,min=1"`
	Answer         string `json:"answer" validate:"required"`
}

// NavigateRequest moves the current-question pointer.
type NavigateRequest struct {
	ToIndex int `json:"to_index" validate:"required,min=1"`
}

// EndInterviewRequest optionally overrides the computed final score.
type EndInterviewRequest struct {
	FinalScore *int    `json:"final_score,omitempty" validate:"omitempty,min=0,max=100"`
	Summary    *string `json:"summary,omitempty"`
}

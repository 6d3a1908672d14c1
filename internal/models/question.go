package models

import (
	"time"

	"github.com/google/uuid"
)

// Question weight difficulty tags used by the weighted scoring variant.
const (
	QuestionDifficultyEasy   = "easy"
	QuestionDifficultyMedium = "medium"
	QuestionDifficultyHard   = "hard"
)

// Question is one ledger entry. Answer and Score stay nil until the
// candidate submits and the evaluation oracle responds.
type Question struct {
	ID               uuid.UUID  `json:"id"`
	Number           int        `json:"number"` // 1-based ledger position
	Text             string     `json:"text"`
	Difficulty       string     `json:"difficulty,omitempty"`
	TimeLimitSeconds int        `json:"time_limit_seconds,omitempty"`
	Answer           *string    `json:"answer,omitempty"`
	Score            *int       `json:"score,omitempty"`
	AskedAt          time.Time  `json:"asked_at"`
	AnsweredAt       *time.Time `json:"answered_at,omitempty"`
}

// Answered reports whether the candidate submitted anything for this question.
func (q *Question) Answered() bool {
	return q.Answer != nil && *q.Answer != ""
}

// AnswerEvaluation is the oracle's verdict on a single answer.
type AnswerEvaluation struct {
	Score       int      `json:"score"`
	Feedback    string   `json:"feedback"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"suggestions"`
}

// InterviewReport is the oracle-generated end-of-session assessment.
type InterviewReport struct {
	OverallScore   int      `json:"overall_score"`
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	Recommendation string   `json:"recommendation"`
}

// Progress is derived from ledger and scoring state, never stored.
type Progress struct {
	QuestionsAsked int  `json:"questions_asked"`
	TotalQuestions int  `json:"total_questions"`
	CurrentScore   int  `json:"current_score"`
	AverageScore   int  `json:"average_score"`
	IsCompleted    bool `json:"is_completed"`
}

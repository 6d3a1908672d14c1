package models

import (
	"time"

	"github.com/google/uuid"
)

// Transcript author roles.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// Message is one transcript entry. The transcript is append-only; the one
// exception is the edit-answer path, which rewrites an existing user entry
// in place instead of appending a duplicate.
type Message struct {
	ID             uuid.UUID `json:"id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	QuestionNumber *int      `json:"question_number,omitempty"`
	Score          *int      `json:"score,omitempty"`
}

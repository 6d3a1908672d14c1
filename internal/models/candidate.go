package models

import (
	"time"

	"github.com/google/uuid"
)

// ResumeFields is the structured record the extraction oracle returns for an
// uploaded resume. Missing fields are empty strings, never omitted keys, so
// clients can bind them directly to display forms.
type ResumeFields struct {
	Name    string `json:"name"`
	Age     string `json:"age"`
	Gender  string `json:"gender"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Summary string `json:"summary"`
}

// CandidateProfile is the durable candidate record: extracted fields plus the
// raw resume text the question oracle uses as context.
type CandidateProfile struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Fields    ResumeFields `json:"fields"`
	RawText   string       `json:"raw_text"`
	Filename  string       `json:"filename"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

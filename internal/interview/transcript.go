package interview

import (
	"time"

	"github.com/google/uuid"

	"intervia-backend/internal/models"
)

// Transcript is the append-only chat log of one session. Entries are never
// removed; the edit-answer path rewrites an existing user entry in place.
type Transcript struct {
	entries []models.Message
}

// Append adds one entry and returns a copy of it.
func (t *Transcript) Append(role, content string, questionNumber, score *int) models.Message {
	msg := models.Message{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	if questionNumber != nil {
		n := *questionNumber
		msg.QuestionNumber = &n
	}
	if score != nil {
		s := *score
		msg.Score = &s
	}
	t.entries = append(t.entries, msg)
	return msg
}

// ReplaceAnswerFor rewrites the most recent user entry tagged with the given
// question number, updating content and timestamp in place. It never grows
// the transcript; when no matching entry exists it reports false and the
// caller appends instead.
func (t *Transcript) ReplaceAnswerFor(questionNumber int, newContent string) bool {
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := &t.entries[i]
		if e.Role != models.RoleUser || e.QuestionNumber == nil || *e.QuestionNumber != questionNumber {
			continue
		}
		e.Content = newContent
		e.Timestamp = time.Now()
		return true
	}
	return false
}

// SetScoreFor attaches an evaluation score to the most recent user entry for
// the given question number.
func (t *Transcript) SetScoreFor(questionNumber, score int) bool {
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := &t.entries[i]
		if e.Role != models.RoleUser || e.QuestionNumber == nil || *e.QuestionNumber != questionNumber {
			continue
		}
		s := score
		e.Score = &s
		return true
	}
	return false
}

// FilterByQuestion returns entries tagged with the given question number.
// Untagged entries (welcome messages, system notes) are always visible, so
// they are included too.
func (t *Transcript) FilterByQuestion(questionNumber int) []models.Message {
	var out []models.Message
	for _, e := range t.entries {
		if e.QuestionNumber == nil || *e.QuestionNumber == questionNumber {
			out = append(out, e)
		}
	}
	return out
}

// All returns a copy of the full transcript in order.
func (t *Transcript) All() []models.Message {
	out := make([]models.Message, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int { return len(t.entries) }

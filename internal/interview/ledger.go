package interview

import (
	"time"

	"github.com/google/uuid"

	"intervia-backend/internal/models"
)

// QuestionSpec describes one question to be inserted into the ledger.
type QuestionSpec struct {
	Text             string
	Difficulty       string
	TimeLimitSeconds int
}

// Ledger is the ordered collection of interview questions plus any recorded
// answers and scores. Order is insertion order and is never resorted; any
// shuffling happens before questions are loaded, not after.
type Ledger struct {
	questions []models.Question
	current   int // 1-based pointer, 0 = none
}

// Load replaces the full ledger with pre-generated questions. Each entry
// gets a fresh id and its 1-based position. The pointer moves to the first
// question when the list is non-empty.
func (l *Ledger) Load(specs []QuestionSpec) {
	l.questions = make([]models.Question, 0, len(specs))
	now := time.Now()
	for i, spec := range specs {
		l.questions = append(l.questions, models.Question{
			ID:               uuid.New(),
			Number:           i + 1,
			Text:             spec.Text,
			Difficulty:       spec.Difficulty,
			TimeLimitSeconds: spec.TimeLimitSeconds,
			AskedAt:          now,
		})
	}
	if len(l.questions) > 0 {
		l.current = 1
	} else {
		l.current = 0
	}
}

// Append adds one question (incremental-generation variant) and returns its
// 1-based position. The pointer moves to the new question.
func (l *Ledger) Append(spec QuestionSpec) int {
	q := models.Question{
		ID:               uuid.New(),
		Number:           len(l.questions) + 1,
		Text:             spec.Text,
		Difficulty:       spec.Difficulty,
		TimeLimitSeconds: spec.TimeLimitSeconds,
		AskedAt:          time.Now(),
	}
	l.questions = append(l.questions, q)
	l.current = q.Number
	return q.Number
}

// RecordAnswer sets or overwrites the answer (and score, when provided) for
// the question at the given 1-based number. Calling it twice with the same
// content yields the same ledger state as calling it once. Unknown numbers
// are rejected.
func (l *Ledger) RecordAnswer(number int, answer string, score *int) bool {
	q := l.byNumber(number)
	if q == nil {
		return false
	}
	now := time.Now()
	q.Answer = &answer
	q.AnsweredAt = &now
	if score != nil {
		s := *score
		q.Score = &s
	}
	return true
}

// RecordScore attaches an evaluation score to an already-answered question.
func (l *Ledger) RecordScore(number, score int) bool {
	q := l.byNumber(number)
	if q == nil {
		return false
	}
	q.Score = &score
	return true
}

// Navigate moves the current-question pointer. Requests outside [1, len] are
// rejected and leave both the pointer and the ledger untouched.
func (l *Ledger) Navigate(toIndex int) bool {
	if toIndex < 1 || toIndex > len(l.questions) {
		return false
	}
	l.current = toIndex
	return true
}

// Current returns the question under the pointer, or nil when there is none.
func (l *Ledger) Current() *models.Question {
	return l.byNumber(l.current)
}

// CurrentNumber returns the 1-based pointer, 0 when no question is current.
func (l *Ledger) CurrentNumber() int { return l.current }

// ClearCurrent drops the pointer (used when a session ends).
func (l *Ledger) ClearCurrent() { l.current = 0 }

// Len returns the number of questions loaded so far.
func (l *Ledger) Len() int { return len(l.questions) }

// Question returns a copy of the entry at the given 1-based number.
func (l *Ledger) Question(number int) (models.Question, bool) {
	q := l.byNumber(number)
	if q == nil {
		return models.Question{}, false
	}
	return *q, true
}

// Questions returns a copy of the full ordered ledger.
func (l *Ledger) Questions() []models.Question {
	out := make([]models.Question, len(l.questions))
	copy(out, l.questions)
	return out
}

// QuestionTexts returns the question texts in order, for prompt context.
func (l *Ledger) QuestionTexts() []string {
	out := make([]string, 0, len(l.questions))
	for i := range l.questions {
		out = append(out, l.questions[i].Text)
	}
	return out
}

func (l *Ledger) byNumber(number int) *models.Question {
	if number < 1 || number > len(l.questions) {
		return nil
	}
	return &l.questions[number-1]
}

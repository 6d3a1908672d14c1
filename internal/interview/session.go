package interview

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"intervia-backend/internal/models"
)

// Session is the live state of one interview: lifecycle status, ledger,
// transcript, score aggregation and both countdown timers. Every mutation
// goes through a named method under the session mutex, so state transitions
// are atomic and there is a single writer at a time. Invalid transitions are
// reported as no-ops; nothing here panics or corrupts state when called from
// the wrong lifecycle phase.
type Session struct {
	mu sync.Mutex

	record         models.InterviewSession
	config         models.InterviewConfig
	jobDescription string
	resumeText     string

	ledger     Ledger
	transcript Transcript
	scores     Aggregator
	policy     ScoringPolicy

	questionTimer Countdown
	overallTimer  Countdown

	// Timer activity remembered across pause so resume restores exactly
	// the countdowns that were running.
	pausedQuestionActive bool
	pausedOverallActive  bool

	awaitingQuestion bool
	lastScore        int
	report           *models.InterviewReport
}

// TickEvent describes what one clock tick did to a session.
type TickEvent struct {
	SessionID     uuid.UUID
	UserID        uuid.UUID
	TimerID       string
	SessionEnded  bool
	FinalScore    int
	NeedsQuestion bool // the skip landed past the last generated question
	NextNumber    int
}

// State is an immutable snapshot of a live session for API responses.
type State struct {
	Session          models.InterviewSession `json:"session"`
	Config           models.InterviewConfig  `json:"config"`
	CurrentQuestion  int                     `json:"current_question"`
	Questions        []models.Question       `json:"questions"`
	Transcript       []models.Message        `json:"transcript"`
	Progress         models.Progress         `json:"progress"`
	QuestionTimer    Countdown               `json:"question_timer"`
	OverallTimer     Countdown               `json:"overall_timer"`
	AwaitingQuestion bool                    `json:"awaiting_question"`
	Report           *models.InterviewReport `json:"report,omitempty"`
}

// NewSession starts a fresh interview: status active, empty ledger and
// transcript, overall timer armed at the configured limit. Starting a new
// session while another is in flight is handled by the manager, which simply
// discards the old one; there is no merge.
func NewSession(userID uuid.UUID, config models.InterviewConfig, jobDescription, resumeText string, candidateName *string, policy ScoringPolicy) *Session {
	s := &Session{
		record: models.InterviewSession{
			ID:               uuid.New(),
			UserID:           userID,
			CandidateName:    candidateName,
			InterviewType:    config.InterviewType,
			Difficulty:       config.Difficulty,
			TotalQuestions:   config.TotalQuestions,
			TimeLimitSeconds: config.TimeLimitMinutes * 60,
			Status:           models.SessionStatusActive,
			StartedAt:        time.Now(),
		},
		config:           config,
		jobDescription:   jobDescription,
		resumeText:       resumeText,
		policy:           policy,
		awaitingQuestion: true,
	}
	s.overallTimer.Arm(config.TimeLimitMinutes * 60)
	s.transcript.Append(models.RoleAI,
		"Welcome to your "+config.InterviewType+" interview. Generating your first question...",
		nil, nil)
	return s
}

func (s *Session) ID() uuid.UUID     { return s.record.ID }
func (s *Session) UserID() uuid.UUID { return s.record.UserID }

// Status returns the current lifecycle status.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Status
}

// Pause freezes both timers. Only valid from active; anything else is a no-op.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Status != models.SessionStatusActive {
		return false
	}
	s.record.Status = models.SessionStatusPaused
	s.pausedQuestionActive = s.questionTimer.Active
	s.pausedOverallActive = s.overallTimer.Active
	s.questionTimer.Disarm()
	s.overallTimer.Disarm()
	return true
}

// Resume unfreezes exactly the timers that were running at pause time.
// Remaining seconds are untouched, so paused wall-clock time never counts
// against the candidate.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Status != models.SessionStatusPaused {
		return false
	}
	s.record.Status = models.SessionStatusActive
	if s.pausedQuestionActive && s.questionTimer.RemainingSeconds > 0 {
		s.questionTimer.Active = true
	}
	if s.pausedOverallActive && s.overallTimer.RemainingSeconds > 0 {
		s.overallTimer.Active = true
	}
	return true
}

// End completes the session. Valid from active or paused. When finalScore is
// nil the running average stands in. Completed sessions are immutable: every
// later mutation attempt is a no-op.
func (s *Session) End(finalScore *int, summary *string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endLocked(finalScore, summary)
}

func (s *Session) endLocked(finalScore *int, summary *string) (int, bool) {
	if s.record.Status != models.SessionStatusActive && s.record.Status != models.SessionStatusPaused {
		return 0, false
	}
	final := s.scores.Average()
	if finalScore != nil {
		final = *finalScore
	}
	now := time.Now()
	s.record.Status = models.SessionStatusCompleted
	s.record.EndedAt = &now
	s.record.FinalScore = &final
	if summary != nil {
		s.record.SummaryJSON, _ = json.Marshal(models.InterviewReport{OverallScore: final, Summary: *summary})
	}
	s.questionTimer.Disarm()
	s.overallTimer.Disarm()
	s.ledger.ClearCurrent()
	s.awaitingQuestion = false
	return final, true
}

// LoadQuestions installs a bulk pre-generated question list and arms the
// question timer for the first entry.
func (s *Session) LoadQuestions(specs []QuestionSpec) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Status != models.SessionStatusActive {
		return false
	}
	s.ledger.Load(specs)
	s.awaitingQuestion = false
	if q := s.ledger.Current(); q != nil {
		s.armQuestionTimerLocked(q)
		s.transcript.Append(models.RoleAI, q.Text, &q.Number, nil)
	}
	return true
}

// ApplyQuestion commits an incrementally generated question. The request was
// issued for a specific 1-based position; a late response for a position the
// ledger has already moved past is discarded rather than applied, which is
// the stale-response guard for slow oracle replies.
func (s *Session) ApplyQuestion(number int, spec QuestionSpec) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Status != models.SessionStatusActive {
		return false
	}
	if number != s.ledger.Len()+1 || number > s.config.TotalQuestions {
		return false
	}
	s.ledger.Append(spec)
	s.awaitingQuestion = false
	if q := s.ledger.Current(); q != nil {
		s.armQuestionTimerLocked(q)
		s.transcript.Append(models.RoleAI, q.Text, &q.Number, nil)
	}
	return true
}

// MarkAwaitingQuestion flags that a generation job is in flight so the
// snapshot can surface a typing indicator.
func (s *Session) MarkAwaitingQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Status == models.SessionStatusActive {
		s.awaitingQuestion = true
	}
}

// SubmitAnswer records (or edits) the answer for one question. An edit
// rewrites the existing transcript entry instead of appending a duplicate.
func (s *Session) SubmitAnswer(number int, answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Status != models.SessionStatusActive {
		return false
	}
	if !s.ledger.RecordAnswer(number, answer, nil) {
		return false
	}
	if !s.transcript.ReplaceAnswerFor(number, answer) {
		s.transcript.Append(models.RoleUser, answer, &number, nil)
	}
	return true
}

// ApplyEvaluation commits an oracle evaluation. The job carries the answer
// text it evaluated; if the candidate has edited the answer since, the stale
// verdict is discarded and the re-evaluation job for the new text wins.
func (s *Session) ApplyEvaluation(number int, answeredText string, eval models.AnswerEvaluation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Status == models.SessionStatusCompleted || s.record.Status == models.SessionStatusCancelled {
		return false
	}
	q, ok := s.ledger.Question(number)
	if !ok || q.Answer == nil || *q.Answer != answeredText {
		return false
	}
	s.ledger.RecordScore(number, eval.Score)
	s.scores.RecordScore(eval.Score)
	s.lastScore = eval.Score
	s.transcript.SetScoreFor(number, eval.Score)
	s.transcript.Append(models.RoleAI, eval.Feedback, &number, &eval.Score)
	return true
}

// ApplyReport attaches the oracle's end-of-session assessment to a completed
// session record.
func (s *Session) ApplyReport(report models.InterviewReport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Status != models.SessionStatusCompleted {
		return false
	}
	s.report = &report
	s.record.SummaryJSON, _ = json.Marshal(report)
	return true
}

// Navigate moves the current-question pointer for free navigation between
// already-generated questions. Out-of-range requests leave everything
// untouched. The question timer is not reset; navigation is review, not a
// fresh ask.
func (s *Session) Navigate(toIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Status != models.SessionStatusActive {
		return false
	}
	return s.ledger.Navigate(toIndex)
}

// Tick advances both timers by one second. A tick after the session has
// ended is a no-op; it never resurrects a completed session. Question-timer
// expiry skips to the next question, or signals that one must be generated
// when the ledger is exhausted below the configured total. When the final
// question's timer runs out the expiry is still reported, but the session
// stays open for navigation and edits until the candidate ends it or the
// overall timer does. Overall-timer expiry force-ends the session with the
// running average, so unanswered questions simply contribute nothing.
func (s *Session) Tick() *TickEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Status != models.SessionStatusActive {
		return nil
	}

	if s.overallTimer.Tick() {
		final, _ := s.endLocked(nil, nil)
		return &TickEvent{
			SessionID:    s.record.ID,
			UserID:       s.record.UserID,
			TimerID:      TimerOverall,
			SessionEnded: true,
			FinalScore:   final,
		}
	}

	if s.questionTimer.Tick() {
		ev := &TickEvent{
			SessionID: s.record.ID,
			UserID:    s.record.UserID,
			TimerID:   TimerQuestion,
		}
		current := s.ledger.CurrentNumber()
		switch {
		case current > 0 && current < s.ledger.Len():
			s.ledger.Navigate(current + 1)
			if q := s.ledger.Current(); q != nil {
				s.armQuestionTimerLocked(q)
			}
			ev.NextNumber = current + 1
		case s.ledger.Len() < s.config.TotalQuestions:
			s.awaitingQuestion = true
			ev.NeedsQuestion = true
			ev.NextNumber = s.ledger.Len() + 1
		}
		return ev
	}

	return nil
}

// Snapshot builds an immutable view of the whole session.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Session:         s.record,
		Config:          s.config,
		CurrentQuestion: s.ledger.CurrentNumber(),
		Questions:       s.ledger.Questions(),
		Transcript:      s.transcript.All(),
		Progress: models.Progress{
			QuestionsAsked: s.ledger.Len(),
			TotalQuestions: s.config.TotalQuestions,
			CurrentScore:   s.lastScore,
			AverageScore:   s.scores.Average(),
			IsCompleted:    s.record.Status == models.SessionStatusCompleted,
		},
		QuestionTimer:    s.questionTimer,
		OverallTimer:     s.overallTimer,
		AwaitingQuestion: s.awaitingQuestion,
		Report:           s.report,
	}
}

// Record returns a copy of the durable session row.
func (s *Session) Record() models.InterviewSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// TranscriptEntries returns the transcript, optionally scoped to one
// question number (0 means everything).
func (s *Session) TranscriptEntries(questionNumber int) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if questionNumber > 0 {
		return s.transcript.FilterByQuestion(questionNumber)
	}
	return s.transcript.All()
}

// Question returns a copy of one ledger entry.
func (s *Session) Question(number int) (models.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Question(number)
}

// PromptContext returns what the question oracle needs: job description,
// resume text and the questions asked so far.
func (s *Session) PromptContext() (jobDescription, resumeText string, previous []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobDescription, s.resumeText, s.ledger.QuestionTexts()
}

// WeightedScore grades the current ledger with the session's policy.
func (s *Session) WeightedScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WeightedFinalScore(s.ledger.Questions(), s.policy)
}

func (s *Session) armQuestionTimerLocked(q *models.Question) {
	limit := q.TimeLimitSeconds
	if limit <= 0 {
		limit = s.config.QuestionTimeSeconds
	}
	s.questionTimer.Arm(limit)
}

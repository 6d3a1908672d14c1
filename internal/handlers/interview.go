package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"intervia-backend/internal/interview"
	"intervia-backend/internal/middleware"
	"intervia-backend/internal/models"
	"intervia-backend/internal/repository"
	"intervia-backend/internal/worker"
)

type InterviewHandler struct {
	manager       *interview.Manager
	sessionRepo   *repository.SessionRepo
	candidateRepo *repository.CandidateRepo
	pool          *worker.Pool
	policy        interview.ScoringPolicy
	validate      *validator.Validate
}

func NewInterviewHandler(
	manager *interview.Manager,
	sessionRepo *repository.SessionRepo,
	candidateRepo *repository.CandidateRepo,
	pool *worker.Pool,
	policy interview.ScoringPolicy,
) *InterviewHandler {
	return &InterviewHandler{
		manager:       manager,
		sessionRepo:   sessionRepo,
		candidateRepo: candidateRepo,
		pool:          pool,
		policy:        policy,
		validate:      validator.New(),
	}
}

// Start begins a new interview session and queues generation of the first
// question. The response is the initial snapshot; the question itself
// arrives over the websocket once the oracle answers.
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	req.Config.ApplyDefaults()
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", validationFields(err), r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	resumeText := ""
	var candidateName *string
	if req.CandidateID != nil {
		candidate, err := h.candidateRepo.GetByID(r.Context(), *req.CandidateID)
		if err != nil || candidate.UserID != userID {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Candidate not found", r))
			return
		}
		resumeText = candidate.RawText
		if candidate.Fields.Name != "" {
			name := candidate.Fields.Name
			candidateName = &name
		}
	}

	session := interview.NewSession(userID, req.Config, req.JobDescription, resumeText, candidateName, h.policy)

	record := session.Record()
	if err := h.sessionRepo.Create(r.Context(), &record); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create session", r))
		return
	}

	h.manager.Add(session)

	if err := h.enqueueQuestion(r, session, 1); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to queue question generation", r))
		return
	}

	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (h *InterviewHandler) Pause(w http.ResponseWriter, r *http.Request) {
	session, ok := h.liveSession(w, r)
	if !ok {
		return
	}

	if !session.Pause() {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Session is not active", r))
		return
	}

	record := session.Record()
	h.sessionRepo.UpdateStatus(r.Context(), &record)
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *InterviewHandler) Resume(w http.ResponseWriter, r *http.Request) {
	session, ok := h.liveSession(w, r)
	if !ok {
		return
	}

	if !session.Resume() {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Session is not paused", r))
		return
	}

	record := session.Record()
	h.sessionRepo.UpdateStatus(r.Context(), &record)
	writeJSON(w, http.StatusOK, session.Snapshot())
}

// End completes the session and queues the final assessment. The weighted
// score over the full ledger is reported alongside the plain average.
func (h *InterviewHandler) End(w http.ResponseWriter, r *http.Request) {
	session, ok := h.liveSession(w, r)
	if !ok {
		return
	}

	var req models.EndInterviewRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", validationFields(err), r))
			return
		}
	}

	finalScore, ended := session.End(req.FinalScore, req.Summary)
	if !ended {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Session has already ended", r))
		return
	}

	record := session.Record()
	h.sessionRepo.UpdateStatus(r.Context(), &record)

	configBytes, _ := json.Marshal(map[string]interface{}{"session_id": session.ID()})
	job := &models.Job{
		UserID:      session.UserID(),
		Type:        models.JobTypeSummaryGeneration,
		ReferenceID: session.ID(),
		ConfigJSON:  configBytes,
	}
	h.pool.Enqueue(r.Context(), job)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":     session.ID(),
		"final_score":    finalScore,
		"weighted_score": session.WeightedScore(),
	})
}

// SubmitAnswer records (or edits) an answer and queues its evaluation.
func (h *InterviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.liveSession(w, r)
	if !ok {
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", validationFields(err), r))
		return
	}

	if !session.SubmitAnswer(req.QuestionNumber, req.Answer) {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Answer was not accepted", r))
		return
	}

	configBytes, _ := json.Marshal(map[string]interface{}{
		"session_id":      session.ID(),
		"question_number": req.QuestionNumber,
		"answer":          req.Answer,
	})
	job := &models.Job{
		UserID:      session.UserID(),
		Type:        models.JobTypeAnswerEvaluation,
		ReferenceID: session.ID(),
		ConfigJSON:  configBytes,
	}
	if err := h.pool.Enqueue(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to queue evaluation", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":   job.ID,
		"progress": session.Snapshot().Progress,
	})
}

// Navigate moves between already-generated questions.
func (h *InterviewHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.liveSession(w, r)
	if !ok {
		return
	}

	var req models.NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if !session.Navigate(req.ToIndex) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Question index out of range", r))
		return
	}

	writeJSON(w, http.StatusOK, session.Snapshot())
}

// State returns the full live snapshot.
func (h *InterviewHandler) State(w http.ResponseWriter, r *http.Request) {
	session, ok := h.liveSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

// Transcript returns the chat log, optionally scoped to one question via
// ?question=N.
func (h *InterviewHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	session, ok := h.liveSession(w, r)
	if !ok {
		return
	}

	questionNumber, _ := strconv.Atoi(r.URL.Query().Get("question"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": session.ID(),
		"messages":   session.TranscriptEntries(questionNumber),
	})
}

// History lists the user's past sessions from the durable store.
func (h *InterviewHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	status := r.URL.Query().Get("status")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	if limit <= 0 || limit > 50 {
		limit = 20
	}

	sessions, total, err := h.sessionRepo.ListByUser(r.Context(), userID, status, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch sessions", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// Get returns one past session row.
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	record, err := h.sessionRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}
	if record.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *InterviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.sessionRepo.Delete(r.Context(), id, userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete session", r))
		return
	}
	h.manager.Remove(id)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}

// liveSession resolves the {id} URL param against the live set and checks
// ownership.
func (h *InterviewHandler) liveSession(w http.ResponseWriter, r *http.Request) (*interview.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return nil, false
	}

	session, ok := h.manager.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No live session with this ID", r))
		return nil, false
	}
	if session.UserID() != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}
	return session, true
}

func (h *InterviewHandler) enqueueQuestion(r *http.Request, session *interview.Session, number int) error {
	session.MarkAwaitingQuestion()
	configBytes, _ := json.Marshal(map[string]interface{}{
		"session_id":      session.ID(),
		"question_number": number,
	})
	job := &models.Job{
		UserID:      session.UserID(),
		Type:        models.JobTypeQuestionGeneration,
		ReferenceID: session.ID(),
		ConfigJSON:  configBytes,
	}
	return h.pool.Enqueue(r.Context(), job)
}

func validationFields(err error) map[string]string {
	fields := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields[fe.Field()] = "failed " + fe.Tag() + " validation"
		}
	}
	return fields
}

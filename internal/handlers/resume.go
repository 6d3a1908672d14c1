package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"intervia-backend/internal/middleware"
	"intervia-backend/internal/models"
	"intervia-backend/internal/repository"
	"intervia-backend/internal/services"
	"intervia-backend/internal/worker"
)

type ResumeHandler struct {
	candidateRepo  *repository.CandidateRepo
	fileExtract    *services.FileExtractService
	pool           *worker.Pool
	maxUploadBytes int64
}

func NewResumeHandler(candidateRepo *repository.CandidateRepo, fileExtract *services.FileExtractService, pool *worker.Pool, maxUploadBytes int64) *ResumeHandler {
	return &ResumeHandler{
		candidateRepo:  candidateRepo,
		fileExtract:    fileExtract,
		pool:           pool,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload accepts a resume file, extracts its text in memory and queues the
// structured-field extraction. The candidate record is usable immediately;
// the fields fill in over the websocket once the oracle responds.
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("VALIDATION_ERROR", "File too large", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing file field", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to read upload", r))
		return
	}

	text, err := h.fileExtract.ExtractText(data, header.Filename)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_ERROR", err.Error(), r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	candidate := &models.CandidateProfile{
		UserID:   userID,
		RawText:  text,
		Filename: header.Filename,
	}
	if err := h.candidateRepo.Create(r.Context(), candidate); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save candidate", r))
		return
	}

	configBytes, _ := json.Marshal(map[string]interface{}{"candidate_id": candidate.ID})
	job := &models.Job{
		UserID:      userID,
		Type:        models.JobTypeResumeExtraction,
		ReferenceID: candidate.ID,
		ConfigJSON:  configBytes,
	}
	if err := h.pool.Enqueue(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to queue extraction", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"candidate": candidate,
		"job_id":    job.ID,
	})
}

func (h *ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid candidate ID", r))
		return
	}

	candidate, err := h.candidateRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Candidate not found", r))
		return
	}
	if candidate.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	writeJSON(w, http.StatusOK, candidate)
}

func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	candidates, err := h.candidateRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch candidates", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"candidates": candidates})
}

func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid candidate ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.candidateRepo.Delete(r.Context(), id, userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete candidate", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Candidate deleted"})
}

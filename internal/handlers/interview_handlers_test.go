package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"intervia-backend/internal/interview"
	"intervia-backend/internal/middleware"
	"intervia-backend/internal/models"
)

// newLiveSession puts a session with two generated questions into a fresh
// manager and returns both.
func newLiveSession(t *testing.T, userID uuid.UUID) (*interview.Manager, *interview.Session) {
	t.Helper()

	config := models.InterviewConfig{}
	config.ApplyDefaults()

	session := interview.NewSession(userID, config, "Backend engineer, Go and Postgres", "", nil, interview.DefaultScoringPolicy())
	if !session.LoadQuestions([]interview.QuestionSpec{
		{Text: "Explain how a hash map handles collisions.", Difficulty: models.QuestionDifficultyMedium, TimeLimitSeconds: 120},
		{Text: "What does a database index cost you on writes?", Difficulty: models.QuestionDifficultyMedium, TimeLimitSeconds: 120},
	}) {
		t.Fatal("LoadQuestions failed on a fresh session")
	}

	manager := interview.NewManager(0, nil)
	manager.Add(session)
	return manager, session
}

// sessionRequest builds a request routed to /{id} with the user attached the
// way the JWT middleware would.
func sessionRequest(method, target string, body []byte, sessionID, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", sessionID.String())

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func decodeErrorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return resp.Error.Code
}

func TestStartInterview_RejectsInvalidConfig(t *testing.T) {
	h := NewInterviewHandler(interview.NewManager(0, nil), nil, nil, nil, interview.DefaultScoringPolicy())

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			"unknown interview type",
			map[string]interface{}{
				"config":          map[string]interface{}{"interview_type": "astrology"},
				"job_description": "Senior backend engineer role",
			},
		},
		{
			"too many questions",
			map[string]interface{}{
				"config":          map[string]interface{}{"total_questions": 200},
				"job_description": "Senior backend engineer role",
			},
		},
		{
			"job description too short",
			map[string]interface{}{
				"config":          map[string]interface{}{},
				"job_description": "short",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(tc.body)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/interviews", bytes.NewReader(jsonBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			h.Start(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rr.Code)
			}
			if code := decodeErrorCode(t, rr); code != "VALIDATION_ERROR" {
				t.Errorf("Expected code VALIDATION_ERROR, got %q", code)
			}
		})
	}
}

func TestStateReturnsSnapshot(t *testing.T) {
	userID := uuid.New()
	manager, session := newLiveSession(t, userID)
	h := NewInterviewHandler(manager, nil, nil, nil, interview.DefaultScoringPolicy())

	req := sessionRequest(http.MethodGet, "/api/v1/interviews/"+session.ID().String()+"/state", nil, session.ID(), userID)
	rr := httptest.NewRecorder()

	h.State(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (%s)", rr.Code, rr.Body.String())
	}

	var state map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&state); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if got := state["current_question"].(float64); got != 1 {
		t.Errorf("Expected current_question 1, got %v", got)
	}
	questions := state["questions"].([]interface{})
	if len(questions) != 2 {
		t.Errorf("Expected 2 questions in snapshot, got %d", len(questions))
	}
}

func TestStateOwnershipDenied(t *testing.T) {
	manager, session := newLiveSession(t, uuid.New())
	h := NewInterviewHandler(manager, nil, nil, nil, interview.DefaultScoringPolicy())

	req := sessionRequest(http.MethodGet, "/api/v1/interviews/"+session.ID().String()+"/state", nil, session.ID(), uuid.New())
	rr := httptest.NewRecorder()

	h.State(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("Expected status 403, got %d", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "FORBIDDEN" {
		t.Errorf("Expected code FORBIDDEN, got %q", code)
	}
}

func TestStateUnknownSession(t *testing.T) {
	h := NewInterviewHandler(interview.NewManager(0, nil), nil, nil, nil, interview.DefaultScoringPolicy())

	id := uuid.New()
	req := sessionRequest(http.MethodGet, "/api/v1/interviews/"+id.String()+"/state", nil, id, uuid.New())
	rr := httptest.NewRecorder()

	h.State(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rr.Code)
	}
}

func TestNavigateBounds(t *testing.T) {
	userID := uuid.New()
	manager, session := newLiveSession(t, userID)
	h := NewInterviewHandler(manager, nil, nil, nil, interview.DefaultScoringPolicy())

	tests := []struct {
		name       string
		toIndex    int
		wantStatus int
	}{
		{"within ledger", 2, http.StatusOK},
		{"back to first", 1, http.StatusOK},
		{"past last generated", 5, http.StatusBadRequest},
		{"zero", 0, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(map[string]int{"to_index": tc.toIndex})
			req := sessionRequest(http.MethodPost, "/api/v1/interviews/"+session.ID().String()+"/navigate", jsonBody, session.ID(), userID)
			rr := httptest.NewRecorder()

			h.Navigate(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("Navigate to %d: expected status %d, got %d", tc.toIndex, tc.wantStatus, rr.Code)
			}
		})
	}
}

func TestTranscriptScopedToQuestion(t *testing.T) {
	userID := uuid.New()
	manager, session := newLiveSession(t, userID)
	if !session.SubmitAnswer(1, "Separate chaining or open addressing.") {
		t.Fatal("SubmitAnswer failed on a fresh session")
	}

	h := NewInterviewHandler(manager, nil, nil, nil, interview.DefaultScoringPolicy())

	req := sessionRequest(http.MethodGet, "/api/v1/interviews/"+session.ID().String()+"/transcript?question=1", nil, session.ID(), userID)
	rr := httptest.NewRecorder()

	h.Transcript(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode transcript: %v", err)
	}
	// Welcome line (untagged) plus question 1 and its answer.
	if len(resp.Messages) != 3 {
		t.Fatalf("Expected 3 messages for question 1, got %d", len(resp.Messages))
	}
	last := resp.Messages[len(resp.Messages)-1]
	if last.Role != models.RoleUser {
		t.Errorf("Expected last message from user, got %q", last.Role)
	}
}

func TestValidationFieldsNamesOffendingFields(t *testing.T) {
	h := NewInterviewHandler(interview.NewManager(0, nil), nil, nil, nil, interview.DefaultScoringPolicy())

	req := models.SubmitAnswerRequest{QuestionNumber: 0, Answer: ""}
	err := h.validate.Struct(&req)
	if err == nil {
		t.Fatal("Expected validation to fail")
	}

	fields := validationFields(err)
	if _, ok := fields["QuestionNumber"]; !ok {
		t.Errorf("Expected QuestionNumber in %v", fields)
	}
	if _, ok := fields["Answer"]; !ok {
		t.Errorf("Expected Answer in %v", fields)
	}
}

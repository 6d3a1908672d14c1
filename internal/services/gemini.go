package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"intervia-backend/internal/interview"
	"intervia-backend/internal/models"
)

// QuestionPrompt carries everything the question oracle needs for one call.
type QuestionPrompt struct {
	InterviewType     string
	Difficulty        string
	QuestionNumber    int
	TotalQuestions    int
	JobDescription    string
	ResumeText        string
	PreviousQuestions []string
}

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	redis    *redis.Client
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int, redisClient *redis.Client) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.4)
	model.SetTopP(0.95)

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		redis:    redisClient,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// PublishUpdate sends a WebSocket update via Redis pub/sub
func (s *GeminiService) PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, _ := json.Marshal(msg)
	s.redis.Publish(ctx, models.UserUpdatesChannel(userID), string(data))
}

// GenerateQuestion asks the oracle for the next interview question.
func (s *GeminiService) GenerateQuestion(ctx context.Context, p QuestionPrompt) (interview.QuestionSpec, error) {
	if err := s.acquireRate(ctx); err != nil {
		return interview.QuestionSpec{}, err
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildQuestionPrompt(p)))
	if err != nil {
		return interview.QuestionSpec{}, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := stripJSONFence(extractText(resp))

	var q struct {
		Question         string `json:"question"`
		Difficulty       string `json:"difficulty"`
		TimeLimitSeconds int    `json:"time_limit_seconds"`
	}
	if err := json.Unmarshal([]byte(rawText), &q); err != nil {
		start := strings.Index(rawText, "{")
		end := strings.LastIndex(rawText, "}")
		if start >= 0 && end > start {
			json.Unmarshal([]byte(rawText[start:end+1]), &q)
		}
	}
	if q.Question == "" {
		return interview.QuestionSpec{}, fmt.Errorf("Gemini returned no question")
	}

	switch q.Difficulty {
	case models.QuestionDifficultyEasy, models.QuestionDifficultyMedium, models.QuestionDifficultyHard:
	default:
		q.Difficulty = models.QuestionDifficultyMedium
	}

	return interview.QuestionSpec{
		Text:             q.Question,
		Difficulty:       q.Difficulty,
		TimeLimitSeconds: q.TimeLimitSeconds,
	}, nil
}

// EvaluateAnswer asks the oracle to grade one answer.
func (s *GeminiService) EvaluateAnswer(ctx context.Context, question, answer, interviewType, difficulty string) (models.AnswerEvaluation, error) {
	if err := s.acquireRate(ctx); err != nil {
		return models.AnswerEvaluation{}, err
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildEvaluationPrompt(question, answer, interviewType, difficulty)))
	if err != nil {
		return models.AnswerEvaluation{}, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := stripJSONFence(extractText(resp))

	var eval models.AnswerEvaluation
	if err := json.Unmarshal([]byte(rawText), &eval); err != nil {
		start := strings.Index(rawText, "{")
		end := strings.LastIndex(rawText, "}")
		if start >= 0 && end > start {
			json.Unmarshal([]byte(rawText[start:end+1]), &eval)
		}
	}
	if eval.Feedback == "" {
		return models.AnswerEvaluation{}, fmt.Errorf("Gemini returned no evaluation")
	}
	if eval.Score < 0 {
		eval.Score = 0
	}
	if eval.Score > 100 {
		eval.Score = 100
	}

	return eval, nil
}

// GenerateReport asks the oracle for the end-of-session assessment.
func (s *GeminiService) GenerateReport(ctx context.Context, questions []models.Question, interviewType, difficulty string, averageScore int) (models.InterviewReport, error) {
	if err := s.acquireRate(ctx); err != nil {
		return models.InterviewReport{}, err
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildReportPrompt(questions, interviewType, difficulty, averageScore)))
	if err != nil {
		return models.InterviewReport{}, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := stripJSONFence(extractText(resp))

	var report models.InterviewReport
	if err := json.Unmarshal([]byte(rawText), &report); err != nil {
		start := strings.Index(rawText, "{")
		end := strings.LastIndex(rawText, "}")
		if start >= 0 && end > start {
			json.Unmarshal([]byte(rawText[start:end+1]), &report)
		}
	}
	if report.Summary == "" {
		return models.InterviewReport{}, fmt.Errorf("Gemini returned no report")
	}
	if report.OverallScore == 0 {
		report.OverallScore = averageScore
	}

	return report, nil
}

// ExtractResumeFields pulls structured candidate fields out of raw resume
// text. Fields the oracle cannot find come back as empty strings.
func (s *GeminiService) ExtractResumeFields(ctx context.Context, resumeText string) (models.ResumeFields, error) {
	if err := s.acquireRate(ctx); err != nil {
		return models.ResumeFields{}, err
	}
	defer s.releaseRate()

	if len(resumeText) > 20000 {
		resumeText = resumeText[:20000]
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildResumeExtractionPrompt(resumeText)))
	if err != nil {
		return models.ResumeFields{}, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := stripJSONFence(extractText(resp))

	var fields models.ResumeFields
	if err := json.Unmarshal([]byte(rawText), &fields); err != nil {
		start := strings.Index(rawText, "{")
		end := strings.LastIndex(rawText, "}")
		if start < 0 || end <= start {
			return models.ResumeFields{}, fmt.Errorf("Gemini returned no JSON object: %w", err)
		}
		if err := json.Unmarshal([]byte(rawText[start:end+1]), &fields); err != nil {
			return models.ResumeFields{}, fmt.Errorf("failed to parse extraction result: %w", err)
		}
	}

	if fields.Name == "" && fields.Email == "" && fields.Summary == "" {
		log.Println("WARNING: resume extraction returned no usable fields")
	}

	return fields, nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func stripJSONFence(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

func buildQuestionPrompt(p QuestionPrompt) string {
	var b strings.Builder

	b.WriteString("You are a senior interviewer conducting a mock job interview. Generate the next interview question.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")

	b.WriteString(fmt.Sprintf("Interview type: %s\n", p.InterviewType))
	b.WriteString(fmt.Sprintf("Seniority level: %s\n", p.Difficulty))
	b.WriteString(fmt.Sprintf("This is question %d of %d.\n\n", p.QuestionNumber, p.TotalQuestions))

	switch p.InterviewType {
	case models.InterviewTypeTechnical:
		b.WriteString("Ask a technical question probing concrete skills from the job description.\n")
	case models.InterviewTypeBehavioral:
		b.WriteString("Ask a behavioral question about past experience, teamwork, or conflict handling.\n")
	case models.InterviewTypeMixed:
		b.WriteString("Alternate between technical and behavioral questions across the interview.\n")
	}

	b.WriteString(`
JSON schema:
{"question": "string", "difficulty": "easy"|"medium"|"hard", "time_limit_seconds": int}

Pick difficulty to match the seniority level and question position: start easier, get harder.
time_limit_seconds must be between 60 and 600.
`)

	if len(p.PreviousQuestions) > 0 {
		b.WriteString("\nAlready asked (do NOT repeat or closely rephrase):\n")
		for i, q := range p.PreviousQuestions {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, q))
		}
	}

	b.WriteString("\n---JOB DESCRIPTION---\n")
	b.WriteString(p.JobDescription)
	b.WriteString("\n---END---\n")

	if p.ResumeText != "" {
		b.WriteString("\n---CANDIDATE RESUME---\n")
		b.WriteString(p.ResumeText)
		b.WriteString("\n---END---\n")
	}

	return b.String()
}

func buildEvaluationPrompt(question, answer, interviewType, difficulty string) string {
	var b strings.Builder

	b.WriteString("You are a senior interviewer grading one answer from a mock job interview.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")

	b.WriteString(fmt.Sprintf("Interview type: %s, seniority level: %s.\n\n", interviewType, difficulty))

	b.WriteString(`JSON schema:
{"score": int, "feedback": "string", "strengths": ["string"], "suggestions": ["string"]}

Scoring guide:
- 90-100: complete, correct, well structured
- 60-89: mostly correct with minor gaps
- 30-59: partially correct or shallow
- 0-29: wrong, off-topic, or empty

feedback is 2-3 sentences addressed directly to the candidate.
`)

	b.WriteString("\n---QUESTION---\n")
	b.WriteString(question)
	b.WriteString("\n---ANSWER---\n")
	b.WriteString(answer)
	b.WriteString("\n---END---\n")

	return b.String()
}

func buildReportPrompt(questions []models.Question, interviewType, difficulty string, averageScore int) string {
	var b strings.Builder

	b.WriteString("You are a senior interviewer writing the final assessment for a completed mock interview.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")

	b.WriteString(fmt.Sprintf("Interview type: %s, seniority level: %s, running average score: %d.\n", interviewType, difficulty, averageScore))

	b.WriteString(`
JSON schema:
{"overall_score": int, "summary": "string", "strengths": ["string"], "improvements": ["string"], "recommendation": "string"}

recommendation is one of: "strong hire", "hire", "lean hire", "no hire".
summary is a single paragraph addressed to the candidate.
`)

	b.WriteString("\n---TRANSCRIPT---\n")
	for _, q := range questions {
		b.WriteString(fmt.Sprintf("Q%d (%s): %s\n", q.Number, q.Difficulty, q.Text))
		if q.Answer != nil {
			b.WriteString(fmt.Sprintf("Answer: %s\n", *q.Answer))
		} else {
			b.WriteString("Answer: (not answered)\n")
		}
		if q.Score != nil {
			b.WriteString(fmt.Sprintf("Score: %d\n", *q.Score))
		}
		b.WriteString("\n")
	}
	b.WriteString("---END---\n")

	return b.String()
}

func buildResumeExtractionPrompt(resumeText string) string {
	var b strings.Builder

	b.WriteString("Extract candidate information from the resume text below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(`JSON schema:
{"name": "string", "age": "string", "gender": "string", "phone": "string", "email": "string", "summary": "string"}

Use an empty string for any field not present in the resume. Never invent values.
summary is 2-3 sentences describing the candidate's background and key skills.
`)

	b.WriteString("\n---RESUME---\n")
	b.WriteString(resumeText)
	b.WriteString("\n---END---\n")

	return b.String()
}

package services

import (
	"testing"

	"intervia-backend/internal/models"
)

func TestFallbackBanksLoad(t *testing.T) {
	svc, err := NewFallbackService()
	if err != nil {
		t.Fatalf("NewFallbackService failed: %v", err)
	}

	for _, interviewType := range []string{models.InterviewTypeTechnical, models.InterviewTypeBehavioral} {
		q := svc.Question(interviewType, 1, nil)
		if q.Text == "" {
			t.Errorf("Empty question from %s bank", interviewType)
		}
		if q.TimeLimitSeconds <= 0 {
			t.Errorf("Question %q has no time limit", q.Text)
		}
	}
}

func TestFallbackQuestionSkipsAlreadyAsked(t *testing.T) {
	svc, err := NewFallbackService()
	if err != nil {
		t.Fatalf("NewFallbackService failed: %v", err)
	}

	first := svc.Question(models.InterviewTypeTechnical, 1, nil)
	second := svc.Question(models.InterviewTypeTechnical, 1, []string{first.Text})
	if second.Text == first.Text {
		t.Errorf("Expected a different question when %q was already asked", first.Text)
	}
}

func TestFallbackMixedAlternatesBanks(t *testing.T) {
	svc, err := NewFallbackService()
	if err != nil {
		t.Fatalf("NewFallbackService failed: %v", err)
	}

	odd := svc.Question(models.InterviewTypeMixed, 1, nil)
	even := svc.Question(models.InterviewTypeMixed, 2, nil)

	technical := svc.Question(models.InterviewTypeTechnical, 1, nil)
	behavioral := svc.Question(models.InterviewTypeBehavioral, 2, nil)

	if odd.Text != technical.Text {
		t.Errorf("Odd position should draw from the technical bank, got %q", odd.Text)
	}
	if even.Text != behavioral.Text {
		t.Errorf("Even position should draw from the behavioral bank, got %q", even.Text)
	}
}

func TestFallbackEvaluationIsNeutral(t *testing.T) {
	svc, err := NewFallbackService()
	if err != nil {
		t.Fatalf("NewFallbackService failed: %v", err)
	}

	eval := svc.Evaluation()
	if eval.Score != 50 {
		t.Errorf("Expected neutral score 50, got %d", eval.Score)
	}
	if eval.Feedback == "" {
		t.Error("Expected placeholder feedback")
	}
}

func TestFallbackReportCarriesAverage(t *testing.T) {
	svc, err := NewFallbackService()
	if err != nil {
		t.Fatalf("NewFallbackService failed: %v", err)
	}

	report := svc.Report(72)
	if report.OverallScore != 72 {
		t.Errorf("Expected overall score 72, got %d", report.OverallScore)
	}
}

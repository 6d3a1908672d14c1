package interview

import (
	"testing"

	"intervia-backend/internal/models"
)

func TestAggregatorAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   int
	}{
		{"empty", nil, 0},
		{"single", []int{70}, 70},
		{"simple mean", []int{80, 60, 100}, 80},
		{"rounds to nearest", []int{80, 85}, 83}, // 82.5 rounds up
		{"clamps out of range", []int{-10, 150}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Aggregator
			for _, s := range tt.scores {
				a.RecordScore(s)
			}
			if got := a.Average(); got != tt.want {
				t.Errorf("Average() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAggregatorReset(t *testing.T) {
	var a Aggregator
	a.RecordScore(90)
	a.Reset()
	if a.Count() != 0 || a.Average() != 0 {
		t.Errorf("after Reset: Count=%d Average=%d, want 0/0", a.Count(), a.Average())
	}
}

func intPtr(n int) *int { return &n }

func TestWeightedFinalScore(t *testing.T) {
	makeQuestions := func(count int, difficulty string, score *int) []models.Question {
		out := make([]models.Question, count)
		for i := range out {
			out[i] = models.Question{Number: i + 1, Difficulty: difficulty}
			if score != nil {
				s := *score
				out[i].Score = &s
				answer := "answer"
				out[i].Answer = &answer
			}
		}
		return out
	}

	policy := DefaultScoringPolicy()

	t.Run("mixed difficulties with unanswered", func(t *testing.T) {
		// 4 easy at 95 earn full weight, 4 medium at 50 earn a quarter,
		// 2 hard left unanswered still count toward the maximum:
		// earned 4 + 3 = 7, max 4 + 12 + 10 = 26, 100*7/26 rounds to 27.
		var qs []models.Question
		qs = append(qs, makeQuestions(4, models.QuestionDifficultyEasy, intPtr(95))...)
		qs = append(qs, makeQuestions(4, models.QuestionDifficultyMedium, intPtr(50))...)
		qs = append(qs, makeQuestions(2, models.QuestionDifficultyHard, nil)...)

		if got := WeightedFinalScore(qs, policy); got != 27 {
			t.Errorf("WeightedFinalScore = %d, want 27", got)
		}
	})

	t.Run("all full credit", func(t *testing.T) {
		qs := makeQuestions(5, models.QuestionDifficultyHard, intPtr(100))
		if got := WeightedFinalScore(qs, policy); got != 100 {
			t.Errorf("WeightedFinalScore = %d, want 100", got)
		}
	})

	t.Run("all below quarter threshold", func(t *testing.T) {
		qs := makeQuestions(3, models.QuestionDifficultyEasy, intPtr(10))
		if got := WeightedFinalScore(qs, policy); got != 0 {
			t.Errorf("WeightedFinalScore = %d, want 0", got)
		}
	})

	t.Run("unknown difficulty defaults to medium weight", func(t *testing.T) {
		qs := makeQuestions(2, "", intPtr(95))
		if got := WeightedFinalScore(qs, policy); got != 100 {
			t.Errorf("WeightedFinalScore = %d, want 100", got)
		}
	})

	t.Run("empty ledger", func(t *testing.T) {
		if got := WeightedFinalScore(nil, policy); got != 0 {
			t.Errorf("WeightedFinalScore = %d, want 0", got)
		}
	})
}

func TestEarnedWeightBuckets(t *testing.T) {
	policy := DefaultScoringPolicy()
	tests := []struct {
		raw  int
		want float64
	}{
		{100, 4}, {90, 4}, // full
		{89, 2}, {60, 2}, // half
		{59, 1}, {30, 1}, // quarter
		{29, 0}, {0, 0}, // nothing
	}
	for _, tt := range tests {
		if got := policy.earnedWeight(tt.raw, 4); got != tt.want {
			t.Errorf("earnedWeight(%d, 4) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

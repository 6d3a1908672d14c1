package interview

import (
	"math"

	"intervia-backend/internal/models"
)

// ScoringPolicy holds the tiered-bucket thresholds and per-difficulty
// weights. They are product tuning choices, so they stay configurable
// rather than baked into the arithmetic.
type ScoringPolicy struct {
	FullThreshold    int
	HalfThreshold    int
	QuarterThreshold int
	Weights          map[string]int
}

// DefaultScoringPolicy mirrors the original product tuning: buckets at
// 90/60/30 and weights 1/3/5 for easy/medium/hard.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		FullThreshold:    90,
		HalfThreshold:    60,
		QuarterThreshold: 30,
		Weights: map[string]int{
			models.QuestionDifficultyEasy:   1,
			models.QuestionDifficultyMedium: 3,
			models.QuestionDifficultyHard:   5,
		},
	}
}

// Aggregator folds individual answer scores into a running average.
type Aggregator struct {
	scores []int
}

// RecordScore appends one 0-100 score and keeps the running set.
func (a *Aggregator) RecordScore(score int) {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	a.scores = append(a.scores, score)
}

// Average returns the arithmetic mean rounded to the nearest integer, 0 when
// nothing has been scored yet.
func (a *Aggregator) Average() int {
	if len(a.scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range a.scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(a.scores))))
}

// Count returns how many scores have been recorded.
func (a *Aggregator) Count() int { return len(a.scores) }

// Reset drops all recorded scores.
func (a *Aggregator) Reset() { a.scores = nil }

// earnedWeight applies the tiered buckets: full weight for a basically
// correct answer, fractional credit below, nothing for a miss. The buckets
// deliberately ignore small score differences so evaluation-oracle noise
// does not move the final grade.
func (p ScoringPolicy) earnedWeight(raw, weight int) float64 {
	w := float64(weight)
	switch {
	case raw >= p.FullThreshold:
		return w
	case raw >= p.HalfThreshold:
		return w / 2
	case raw >= p.QuarterThreshold:
		return w / 4
	default:
		return 0
	}
}

// WeightedFinalScore grades a full ledger against the policy. Unanswered
// questions still count toward the maximum, so skipping costs points, but
// they earn nothing. The result is a 0-100 percentage rounded to the
// nearest integer.
func WeightedFinalScore(questions []models.Question, policy ScoringPolicy) int {
	var earned, max float64
	for i := range questions {
		weight, ok := policy.Weights[questions[i].Difficulty]
		if !ok {
			weight = policy.Weights[models.QuestionDifficultyMedium]
		}
		max += float64(weight)
		if questions[i].Score == nil {
			continue
		}
		earned += policy.earnedWeight(*questions[i].Score, weight)
	}
	if max == 0 {
		return 0
	}
	return int(math.Round(100 * earned / max))
}

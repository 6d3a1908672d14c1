package services

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"intervia-backend/internal/interview"
	"intervia-backend/internal/models"
)

//go:embed questionbanks/*.yaml
var questionBankFS embed.FS

type bankEntry struct {
	Text             string `yaml:"text"`
	Difficulty       string `yaml:"difficulty"`
	TimeLimitSeconds int    `yaml:"time_limit_seconds"`
}

type questionBank struct {
	Questions []bankEntry `yaml:"questions"`
}

// FallbackService serves canned questions and neutral verdicts when the
// oracle is down or out of retries. The interview keeps moving either way;
// a degraded question beats a stalled session.
type FallbackService struct {
	banks map[string][]bankEntry
}

func NewFallbackService() (*FallbackService, error) {
	banks := make(map[string][]bankEntry)
	for _, interviewType := range []string{models.InterviewTypeTechnical, models.InterviewTypeBehavioral} {
		data, err := questionBankFS.ReadFile("questionbanks/" + interviewType + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s question bank: %w", interviewType, err)
		}
		var bank questionBank
		if err := yaml.Unmarshal(data, &bank); err != nil {
			return nil, fmt.Errorf("failed to parse %s question bank: %w", interviewType, err)
		}
		if len(bank.Questions) == 0 {
			return nil, fmt.Errorf("%s question bank is empty", interviewType)
		}
		banks[interviewType] = bank.Questions
	}
	return &FallbackService{banks: banks}, nil
}

// Question returns a bank question for the given position, skipping texts
// that were already asked. Mixed interviews alternate between the two banks.
func (f *FallbackService) Question(interviewType string, questionNumber int, asked []string) interview.QuestionSpec {
	bankType := interviewType
	if interviewType == models.InterviewTypeMixed {
		bankType = models.InterviewTypeTechnical
		if questionNumber%2 == 0 {
			bankType = models.InterviewTypeBehavioral
		}
	}
	bank, ok := f.banks[bankType]
	if !ok {
		bank = f.banks[models.InterviewTypeTechnical]
	}

	seen := make(map[string]bool, len(asked))
	for _, q := range asked {
		seen[strings.TrimSpace(q)] = true
	}

	start := (questionNumber - 1) % len(bank)
	for i := 0; i < len(bank); i++ {
		entry := bank[(start+i)%len(bank)]
		if seen[entry.Text] {
			continue
		}
		return interview.QuestionSpec{
			Text:             entry.Text,
			Difficulty:       entry.Difficulty,
			TimeLimitSeconds: entry.TimeLimitSeconds,
		}
	}

	// Bank exhausted; repeat rather than stall.
	entry := bank[start]
	return interview.QuestionSpec{
		Text:             entry.Text,
		Difficulty:       entry.Difficulty,
		TimeLimitSeconds: entry.TimeLimitSeconds,
	}
}

// Evaluation returns a neutral verdict so an unreachable oracle never blocks
// the candidate's progress.
func (f *FallbackService) Evaluation() models.AnswerEvaluation {
	return models.AnswerEvaluation{
		Score:    50,
		Feedback: "Your answer was recorded, but automatic evaluation is temporarily unavailable. The score shown is a neutral placeholder.",
	}
}

// Report builds a minimal assessment from the scores alone.
func (f *FallbackService) Report(averageScore int) models.InterviewReport {
	return models.InterviewReport{
		OverallScore:   averageScore,
		Summary:        "Automatic assessment is temporarily unavailable. The overall score reflects the average of your per-question scores.",
		Recommendation: "review manually",
	}
}

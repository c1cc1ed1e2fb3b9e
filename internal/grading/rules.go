package grading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/gema-exam-api/internal/models"
)

// ErrUnknownQuestionType is returned when no scoring rule exists for a question type.
var ErrUnknownQuestionType = errors.New("unknown question type")

// Feedback messages attached to scored answers.
const (
	FeedbackCorrect          = "Correct"
	FeedbackIncorrect        = "Incorrect"
	FeedbackNoExpectedAnswer = "No expected answer configured"
)

// QuestionResult is the scoring outcome for a single answer.
type QuestionResult struct {
	AnswerID     uint    `json:"answer_id"`
	QuestionID   uint    `json:"question_id"`
	AwardedScore float64 `json:"awarded_score"`
	Feedback     string  `json:"feedback"`
}

type rule interface {
	score(maxScore float64, question models.Question, answer models.Answer) (float64, string)
}

// ruleFor is the only place question types are mapped to scoring behaviour.
func ruleFor(questionType models.QuestionType) (rule, error) {
	switch questionType {
	case models.QuestionTypeMCQ:
		return optionMatchRule{}, nil
	case models.QuestionTypeShort, models.QuestionTypeEssay:
		return keywordOverlapRule{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionType, questionType)
	}
}

// Score applies the rule for the question's type to one answer. The awarded score is
// always within [0, question max score].
func Score(question models.Question, answer models.Answer) (QuestionResult, error) {
	r, err := ruleFor(question.Type)
	if err != nil {
		return QuestionResult{}, err
	}

	maxScore := float64(question.MaxScore)
	if maxScore <= 0 {
		maxScore = 1
	}

	awarded, feedback := r.score(maxScore, question, answer)
	return QuestionResult{
		AnswerID:     answer.ID,
		QuestionID:   question.ID,
		AwardedScore: awarded,
		Feedback:     feedback,
	}, nil
}

type optionMatchRule struct{}

func (optionMatchRule) score(maxScore float64, question models.Question, answer models.Answer) (float64, string) {
	expected := canonicalOption(question.ExpectedAnswer)
	chosen := canonicalOption(answer.SelectedOption)
	if expected != "" && chosen != "" && expected == chosen {
		return maxScore, FeedbackCorrect
	}
	return 0, FeedbackIncorrect
}

func canonicalOption(value string) string {
	return lowerText(strings.TrimSpace(value))
}

type keywordOverlapRule struct{}

func (keywordOverlapRule) score(maxScore float64, question models.Question, answer models.Answer) (float64, string) {
	expected := Tokenize(question.ExpectedAnswer)
	if len(expected) == 0 {
		return 0, FeedbackNoExpectedAnswer
	}

	overlap := expected.Intersect(Tokenize(answer.AnswerText))
	ratio := float64(overlap) / float64(max(1, len(expected)))
	return Round2(maxScore * ratio), fmt.Sprintf("Keyword overlap: %d/%d", overlap, len(expected))
}

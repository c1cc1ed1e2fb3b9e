package grading

import (
	"errors"
	"fmt"
	"sort"

	"github.com/noah-isme/gema-exam-api/internal/models"
)

// ErrPrecondition signals grading was invoked on an aggregate without its associations loaded.
var ErrPrecondition = errors.New("grading precondition violated")

// Result aggregates the per-answer outcomes of one submission.
type Result struct {
	TotalScore  float64          `json:"total_score"`
	PerQuestion []QuestionResult `json:"per_question"`
}

// ByQuestion indexes the per-answer results by question id.
func (r Result) ByQuestion() map[uint]QuestionResult {
	indexed := make(map[uint]QuestionResult, len(r.PerQuestion))
	for _, item := range r.PerQuestion {
		indexed[item.QuestionID] = item
	}
	return indexed
}

// Engine scores fully loaded submissions. It performs no I/O.
type Engine struct{}

// NewEngine returns a grading engine.
func NewEngine() Engine {
	return Engine{}
}

// Grade scores every answer of the submission and sums the awarded scores. Each answer
// must carry its Question; the total is rounded again after summation.
func (Engine) Grade(submission models.Submission) (Result, error) {
	answers := make([]models.Answer, len(submission.Answers))
	copy(answers, submission.Answers)
	sort.SliceStable(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })

	result := Result{PerQuestion: make([]QuestionResult, 0, len(answers))}
	var total float64
	for _, answer := range answers {
		if answer.Question.ID == 0 || answer.Question.ID != answer.QuestionID {
			return Result{}, fmt.Errorf("%w: answer %d has no loaded question %d", ErrPrecondition, answer.ID, answer.QuestionID)
		}

		scored, err := Score(answer.Question, answer)
		if err != nil {
			return Result{}, fmt.Errorf("score answer %d: %w", answer.ID, err)
		}

		total += scored.AwardedScore
		result.PerQuestion = append(result.PerQuestion, scored)
	}

	result.TotalScore = Round2(total)
	return result, nil
}

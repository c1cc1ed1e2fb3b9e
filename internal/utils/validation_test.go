package utils_test

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-exam-api/internal/utils"
)

type answerInput struct {
	QuestionID uint `json:"question_id" validate:"required,gt=0"`
}

type submissionInput struct {
	ExamID  uint          `json:"exam_id" validate:"required,gt=0"`
	Answers []answerInput `json:"answers" validate:"dive"`
}

func TestValidationFieldsUsesJSONNames(t *testing.T) {
	err := utils.NewValidator().Struct(submissionInput{Answers: []answerInput{{QuestionID: 1}, {}}})

	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))

	fields := utils.ValidationFields(errs)
	require.Equal(t, "is required", fields["exam_id"])
	require.Equal(t, "is required", fields["answers[1].question_id"])
	require.Len(t, fields, 2)
}

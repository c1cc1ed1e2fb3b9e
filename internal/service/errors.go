package service

import (
	"errors"
	"fmt"
)

var (
	// ErrExamNotFound indicates the referenced exam does not exist.
	ErrExamNotFound = errors.New("exam not found")
	// ErrSubmissionNotFound indicates a submission could not be found.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrSubmissionForbidden indicates the caller may not view the submission.
	ErrSubmissionForbidden = errors.New("submission belongs to another student")
)

// ValidationError rejects a submission payload before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Fields returns the error keyed by the offending request field.
func (e *ValidationError) Fields() map[string]string {
	return map[string]string{e.Field: e.Message}
}

// ConflictError reports a uniqueness violation against stored submissions.
type ConflictError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Fields returns the error keyed by the offending request field.
func (e *ConflictError) Fields() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func alreadySubmitted(err error) *ConflictError {
	return &ConflictError{Field: "exam_id", Message: "already submitted for this exam", Err: err}
}

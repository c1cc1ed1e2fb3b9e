package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles repositories bound to one transaction.
type Repositories struct {
	Exams       ExamRepository
	Submissions SubmissionRepository
}

// Transactor runs a unit of work in a database transaction. The transaction commits when fn
// returns nil and rolls back on any error or panic.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor builds a Transactor on top of the GORM connection pool.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repositories{
			Exams:       NewExamRepository(tx),
			Submissions: NewSubmissionRepository(tx),
		})
	})
}

package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-exam-api/internal/database"
	"github.com/noah-isme/gema-exam-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedExam(t *testing.T, db *gorm.DB) models.Exam {
	t.Helper()
	exam := models.Exam{
		Title:           "Relativity",
		Course:          "PHYS-201",
		DurationMinutes: 45,
		Metadata:        map[string]interface{}{"term": "fall"},
		Questions: []models.Question{
			{Type: models.QuestionTypeMCQ, Prompt: "Pick one", ExpectedAnswer: "B", Options: []string{"A", "B", "C"}, MaxScore: 2},
			{Type: models.QuestionTypeShort, Prompt: "Explain gravity", ExpectedAnswer: "gravity bends spacetime", MaxScore: 4},
		},
	}
	require.NoError(t, db.Create(&exam).Error)
	return exam
}

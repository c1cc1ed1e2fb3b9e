package models

import "time"

// Student is the learner identity a submission belongs to. Rows are owned by the
// authentication service; submissions only reference the id.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All returns every model the service migrates, in dependency order.
func All() []interface{} {
	return []interface{}{&Student{}, &Exam{}, &Question{}, &Submission{}, &Answer{}}
}

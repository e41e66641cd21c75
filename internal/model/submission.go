package model

import "time"

// Submission represents one persisted contact-form record. Submissions are
// immutable once stored: there is no update path, and records are only ever
// removed in bulk when the backing table is dropped.
type Submission struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(100);not null"`
	Message   string    `json:"message" gorm:"type:longtext;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index;autoCreateTime"`
}

// TableName specifies the table name for Submission
func (Submission) TableName() string {
	return "smart_form_submissions"
}

package domain

import "time"

// MaxMessageLength caps a single feedback submission.
const MaxMessageLength = 10000

// Feedback is a write-only user submission.
type Feedback struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index;not null"`
	DisplayName string    `json:"display_name"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

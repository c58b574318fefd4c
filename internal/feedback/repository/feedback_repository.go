package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"omnicall-backend/internal/feedback/domain"
)

// FeedbackRepository defines the interface for feedback persistence
type FeedbackRepository interface {
	Create(feedback *domain.Feedback) error
}

// feedbackRepository implements FeedbackRepository using GORM
type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new instance of feedbackRepository
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(feedback *domain.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}
	feedback.CreatedAt = time.Now()
	return r.db.Create(feedback).Error
}

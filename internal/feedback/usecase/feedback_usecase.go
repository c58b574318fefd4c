package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"omnicall-backend/internal/errs"
	"omnicall-backend/internal/feedback/domain"
	"omnicall-backend/internal/feedback/repository"
)

// FeedbackUsecase stores user feedback. Write-only; no dedup or fan-out.
type FeedbackUsecase interface {
	Submit(userID, displayName, message string) error
}

type feedbackUsecase struct {
	feedbackRepo repository.FeedbackRepository
	logger       *zap.Logger
}

// NewFeedbackUsecase creates a new instance of feedbackUsecase
func NewFeedbackUsecase(feedbackRepo repository.FeedbackRepository, logger *zap.Logger) FeedbackUsecase {
	return &feedbackUsecase{feedbackRepo: feedbackRepo, logger: logger}
}

func (u *feedbackUsecase) Submit(userID, displayName, message string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(displayName) == "" || message == "" {
		return fmt.Errorf("%w: userId, displayName, and message are required", errs.ErrInvalidArgument)
	}
	// The limit counts characters, not bytes.
	if utf8.RuneCountInString(message) > domain.MaxMessageLength {
		return fmt.Errorf("%w: message must be under %d characters", errs.ErrInvalidArgument, domain.MaxMessageLength)
	}

	feedback := &domain.Feedback{
		UserID:      userID,
		DisplayName: displayName,
		Message:     message,
	}
	if err := u.feedbackRepo.Create(feedback); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}

	u.logger.Info("feedback submitted", zap.String("user_id", userID))
	return nil
}

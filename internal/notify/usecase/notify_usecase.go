package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	devicerepo "omnicall-backend/internal/device/repository"
	"omnicall-backend/internal/errs"
	notifyrepo "omnicall-backend/internal/notify/repository"
	"omnicall-backend/pkg/fcm"
)

const (
	// DefaultMessage is the canned alert body used when the caller sends none.
	DefaultMessage = "Match found !! Hurry up and accept on your PC !!"

	alertTitle = "OmniCall Alert"

	// matchMarker is the protocol constant the detector embeds in automatic
	// match alerts. Its presence distinguishes match-class messages from
	// manual test alerts.
	matchMarker = "Match found"

	// matchWindow collapses repeated match-class events for the same user
	// into one counted match. Exactly 60s apart counts as a new match.
	matchWindow = 60 * time.Second
)

// NotifyResult reports the outcome of one fan-out.
type NotifyResult struct {
	Sent     int      `json:"sent"`
	Total    int      `json:"total"`
	Failures []string `json:"failures,omitempty"`
}

// PushSender is the push-transport boundary. Implemented by *fcm.Client.
type PushSender interface {
	SendBatch(ctx context.Context, deliveries []fcm.Delivery) (fcm.BatchResult, error)
}

// CounterRecorder applies the counter updates for a dispatch outcome.
type CounterRecorder interface {
	Record(userID string, sentCount int, isNewMatch bool) error
}

// NotifyUsecase fans a message out to every device registered for a user.
type NotifyUsecase interface {
	Dispatch(ctx context.Context, userID, message string) (*NotifyResult, error)
}

type notifyUsecase struct {
	tokenRepo devicerepo.TokenRepository
	dedupRepo notifyrepo.DedupRepository
	sender    PushSender
	counters  CounterRecorder
	clickLink string
	logger    *zap.Logger
	now       func() time.Time
}

// NewNotifyUsecase creates a new instance of notifyUsecase
func NewNotifyUsecase(
	tokenRepo devicerepo.TokenRepository,
	dedupRepo notifyrepo.DedupRepository,
	sender PushSender,
	counters CounterRecorder,
	clickLink string,
	logger *zap.Logger,
) NotifyUsecase {
	return &notifyUsecase{
		tokenRepo: tokenRepo,
		dedupRepo: dedupRepo,
		sender:    sender,
		counters:  counters,
		clickLink: clickLink,
		logger:    logger,
		now:       time.Now,
	}
}

// Dispatch resolves the user's tokens, sends one delivery per token, then
// classifies and records the outcome. Zero registered devices is not an
// error; partial delivery failure is not an error either.
func (u *notifyUsecase) Dispatch(ctx context.Context, userID, message string) (*NotifyResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", errs.ErrInvalidArgument)
	}
	if message == "" {
		message = DefaultMessage
	}

	tokens, err := u.tokenRepo.GetTokensByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	if len(tokens) == 0 {
		// No devices paired yet. No transport call, no counter mutation.
		return &NotifyResult{}, nil
	}

	deliveries := make([]fcm.Delivery, 0, len(tokens))
	for _, t := range tokens {
		deliveries = append(deliveries, fcm.Delivery{
			Token: t.Token,
			Title: alertTitle,
			Body:  message,
			Link:  u.clickLink,
		})
	}

	batch, err := u.sender.SendBatch(ctx, deliveries)
	if err != nil {
		return nil, fmt.Errorf("send batch: %w", err)
	}

	if batch.Sent > 0 {
		isNewMatch := false
		if strings.Contains(message, matchMarker) {
			isNewMatch, err = u.dedupRepo.ClassifyMatch(userID, u.now(), matchWindow)
			if err != nil {
				// Best-effort: the alert is already delivered. Count it as a
				// repeat rather than failing the request.
				u.logger.Error("match classification failed",
					zap.String("user_id", userID), zap.Error(err))
				isNewMatch = false
			}
		}

		if err := u.counters.Record(userID, batch.Sent, isNewMatch); err != nil {
			// Counters are advisory telemetry, never a delivery gate.
			u.logger.Error("counter update failed",
				zap.String("user_id", userID), zap.Error(err))
		}

		u.logger.Info("notification dispatched",
			zap.String("user_id", userID),
			zap.Int("sent", batch.Sent),
			zap.Int("total", len(tokens)),
			zap.Bool("new_match", isNewMatch))
	}

	return &NotifyResult{
		Sent:     batch.Sent,
		Total:    len(tokens),
		Failures: batch.Failures,
	}, nil
}

package usecase

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"omnicall-backend/internal/errs"
	pairingrepo "omnicall-backend/internal/pairing/repository"
	"omnicall-backend/internal/stats/domain"
	"omnicall-backend/internal/stats/repository"
)

// PersonalStats is the per-user counter scope.
type PersonalStats struct {
	MatchesFound      int64 `json:"matchesFound"`
	NotificationsSent int64 `json:"notificationsSent"`
}

// StatsResponse combines the personal and global scopes.
type StatsResponse struct {
	Personal PersonalStats          `json:"personal"`
	Global   *domain.GlobalSnapshot `json:"global"`
}

// StatsUsecase aggregates dispatch outcomes into counters and serves reads.
type StatsUsecase interface {
	// Record applies the counter updates for one dispatch. The raw send count
	// and the new-match count are independent: repeats and tests bump
	// notificationsSent only.
	Record(userID string, sentCount int, isNewMatch bool) error
	GetStats(userID string) (*StatsResponse, error)
}

type statsUsecase struct {
	statsRepo repository.StatsRepository
	userRepo  pairingrepo.UserRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewStatsUsecase creates a new instance of statsUsecase
func NewStatsUsecase(statsRepo repository.StatsRepository, userRepo pairingrepo.UserRepository, logger *zap.Logger) StatsUsecase {
	return &statsUsecase{
		statsRepo: statsRepo,
		userRepo:  userRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (u *statsUsecase) Record(userID string, sentCount int, isNewMatch bool) error {
	if sentCount <= 0 {
		return nil
	}
	if err := u.statsRepo.AddNotificationsSent(userID, sentCount); err != nil {
		return fmt.Errorf("add notifications sent: %w", err)
	}
	if isNewMatch {
		if err := u.statsRepo.RecordNewMatch(userID, u.now()); err != nil {
			return fmt.Errorf("record new match: %w", err)
		}
	}
	return nil
}

func (u *statsUsecase) GetStats(userID string) (*StatsResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", errs.ErrInvalidArgument)
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", errs.ErrNotFound, userID)
	}

	global, err := u.statsRepo.GetGlobal(u.now())
	if err != nil {
		return nil, fmt.Errorf("get global stats: %w", err)
	}

	return &StatsResponse{
		Personal: PersonalStats{
			MatchesFound:      user.MatchesFound,
			NotificationsSent: user.NotificationsSent,
		},
		Global: global,
	}, nil
}

package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pairingdomain "omnicall-backend/internal/pairing/domain"
	"omnicall-backend/internal/stats/domain"
)

const dayKeyLayout = "2006-01-02"

// StatsRepository persists the counter scopes. Every write is a SQL-level
// atomic increment; counters are never read-modified-written by the
// application.
type StatsRepository interface {
	RecordUserCreated(now time.Time) error
	AddNotificationsSent(userID string, n int) error
	RecordNewMatch(userID string, now time.Time) error
	GetGlobal(now time.Time) (*domain.GlobalSnapshot, error)
}

// statsRepository implements StatsRepository using GORM
type statsRepository struct {
	db  *gorm.DB
	loc *time.Location // fixed reference zone for day buckets
}

// NewStatsRepository creates a new instance of statsRepository
func NewStatsRepository(db *gorm.DB, loc *time.Location) StatsRepository {
	return &statsRepository{db: db, loc: loc}
}

// RecordUserCreated bumps global totalUsers and today's usersToday bucket.
func (r *statsRepository) RecordUserCreated(now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := incrementGlobal(tx, now, 1, 0); err != nil {
			return err
		}
		day := now.In(r.loc).Format(dayKeyLayout)
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"users_today": gorm.Expr("daily_stats.users_today + 1"),
				"updated_at":  now,
			}),
		}).Create(&domain.DailyStats{
			Day:        day,
			UsersToday: 1,
			UpdatedAt:  now,
		}).Error
	})
}

// AddNotificationsSent adds the raw attempted-success count to the user's
// notificationsSent counter.
func (r *statsRepository) AddNotificationsSent(userID string, n int) error {
	return r.db.Model(&pairingdomain.User{}).
		Where("id = ?", userID).
		UpdateColumn("notifications_sent", gorm.Expr("notifications_sent + ?", n)).Error
}

// RecordNewMatch bumps the user's matchesFound and the global totalSends.
func (r *statsRepository) RecordNewMatch(userID string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&pairingdomain.User{}).
			Where("id = ?", userID).
			UpdateColumn("matches_found", gorm.Expr("matches_found + 1")).Error
		if err != nil {
			return err
		}
		return incrementGlobal(tx, now, 0, 1)
	})
}

// GetGlobal returns the global counters plus today's bucket. Missing rows
// read as zero.
func (r *statsRepository) GetGlobal(now time.Time) (*domain.GlobalSnapshot, error) {
	snapshot := &domain.GlobalSnapshot{}

	var global domain.GlobalStats
	err := r.db.Where("id = ?", domain.GlobalStatsID).First(&global).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("read global stats: %w", err)
	}
	if err == nil {
		snapshot.TotalUsers = global.TotalUsers
		snapshot.TotalSends = global.TotalSends
		snapshot.UpdatedAt = &global.UpdatedAt
	}

	var daily domain.DailyStats
	day := now.In(r.loc).Format(dayKeyLayout)
	err = r.db.Where("day = ?", day).First(&daily).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("read daily stats: %w", err)
	}
	if err == nil {
		snapshot.UsersToday = daily.UsersToday
	}

	return snapshot, nil
}

// incrementGlobal upserts the fixed global row with atomic column increments.
func incrementGlobal(tx *gorm.DB, now time.Time, deltaUsers, deltaSends int64) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_users": gorm.Expr("global_stats.total_users + ?", deltaUsers),
			"total_sends": gorm.Expr("global_stats.total_sends + ?", deltaSends),
			"updated_at":  now,
		}),
	}).Create(&domain.GlobalStats{
		ID:         domain.GlobalStatsID,
		TotalUsers: deltaUsers,
		TotalSends: deltaSends,
		UpdatedAt:  now,
	}).Error
}

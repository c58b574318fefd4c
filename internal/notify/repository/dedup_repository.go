package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pairingdomain "omnicall-backend/internal/pairing/domain"
)

// DedupRepository performs the per-user match check-and-set. The read and the
// conditional write must be a single atomic unit so concurrent dispatches
// inside the window classify exactly one event as new.
type DedupRepository interface {
	// ClassifyMatch reports whether a match-class event at `now` is a new
	// match for the user, and stamps lastMatchAt in the same step when it is.
	ClassifyMatch(userID string, now time.Time, window time.Duration) (bool, error)
}

// dedupRepository implements DedupRepository using a row-locked transaction.
type dedupRepository struct {
	db *gorm.DB
}

// NewDedupRepository creates a new instance of dedupRepository
func NewDedupRepository(db *gorm.DB) DedupRepository {
	return &dedupRepository{db: db}
}

func (r *dedupRepository) ClassifyMatch(userID string, now time.Time, window time.Duration) (bool, error) {
	isNew := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user pairingdomain.User
		// SELECT ... FOR UPDATE serializes concurrent classifications per user.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).
			First(&user).Error
		if err != nil {
			return fmt.Errorf("lock user row: %w", err)
		}

		if !IsNewMatch(user.LastMatchAt, now, window) {
			return nil // repeat alert for the same game, leave lastMatchAt untouched
		}

		isNew = true
		return tx.Model(&pairingdomain.User{}).
			Where("id = ?", userID).
			UpdateColumn("last_match_at", now).Error
	})
	if err != nil {
		return false, err
	}
	return isNew, nil
}

// IsNewMatch decides whether a match-class event at `now` opens a new window.
// No prior match means new; exactly the window boundary counts as new.
func IsNewMatch(lastMatchAt *time.Time, now time.Time, window time.Duration) bool {
	if lastMatchAt == nil {
		return true
	}
	return now.Sub(*lastMatchAt) >= window
}

package domain

import "time"

// User represents a paired identity. The per-user counters and the dedup
// window state live on the same row so the match check-and-set can lock a
// single record.
type User struct {
	ID                string     `json:"id" gorm:"primaryKey"` // slug-suffix identity, e.g. "amr-k3f9x2m1q8z7w4n5"
	Label             string     `json:"label"`
	NotificationsSent int64      `json:"notifications_sent"`
	MatchesFound      int64      `json:"matches_found"`
	LastMatchAt       *time.Time `json:"last_match_at"` // nil until the first detector match
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

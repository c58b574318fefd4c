package domain

import "time"

// GlobalStatsID is the fixed row id holding the global counters.
const GlobalStatsID = "global"

// GlobalStats is the single-row document of global counters. All columns are
// monotonically non-decreasing and updated only by SQL-level increments.
type GlobalStats struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	TotalUsers int64     `json:"total_users"`
	TotalSends int64     `json:"total_sends"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (GlobalStats) TableName() string { return "global_stats" }

// DailyStats counts identities created per calendar day. The day key is
// formatted in the configured stats time zone, not UTC.
type DailyStats struct {
	Day        string    `json:"day" gorm:"primaryKey"` // "2006-01-02"
	UsersToday int64     `json:"users_today"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DailyStats) TableName() string { return "daily_stats" }

// GlobalSnapshot is the read model for the global counter scope.
type GlobalSnapshot struct {
	TotalUsers int64      `json:"totalUsers"`
	TotalSends int64      `json:"totalSends"`
	UsersToday int64      `json:"usersToday"`
	UpdatedAt  *time.Time `json:"updatedAt"`
}

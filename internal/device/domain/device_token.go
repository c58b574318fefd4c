package domain

import "time"

// Platform identifies the client surface that registered a token.
type Platform string

const (
	PlatformIOSPWA     Platform = "ios-pwa"
	PlatformAndroidPWA Platform = "android-pwa"
	PlatformWeb        Platform = "web"
)

// Valid reports whether p is a known platform value.
func (p Platform) Valid() bool {
	switch p {
	case PlatformIOSPWA, PlatformAndroidPWA, PlatformWeb:
		return true
	}
	return false
}

// DeviceToken represents a push-transport device token registered for a user.
// A token value maps to at most one user at a time.
type DeviceToken struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"` // Don't expose token in JSON
	Platform  Platform  `json:"platform"`
	UserAgent string    `json:"user_agent"` // Browser/device metadata
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

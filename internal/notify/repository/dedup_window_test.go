package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsNewMatch(t *testing.T) {
	t.Parallel()
	const window = 60 * time.Second
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		lastMatchAt *time.Time
		now         time.Time
		want        bool
	}{
		{"no prior match", nil, base, true},
		{"10s after prior match", &base, base.Add(10 * time.Second), false},
		{"just inside the window", &base, base.Add(window - time.Nanosecond), false},
		{"exactly at the boundary", &base, base.Add(window), true},
		{"61s after prior match", &base, base.Add(61 * time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsNewMatch(tt.lastMatchAt, tt.now, window))
		})
	}
}

package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"omnicall-backend/internal/errs"
	"omnicall-backend/internal/pairing/domain"
	"omnicall-backend/internal/pairing/repository"
)

const (
	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffixLength   = 16
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// CreateUserResult is the outcome of allocating a new identity.
type CreateUserResult struct {
	UserID     string `json:"userId"`
	PairingURL string `json:"pairingUrl"`
}

// UserCounter records identity creation in the global counters.
type UserCounter interface {
	RecordUserCreated(now time.Time) error
}

// PairingUsecase allocates user identities for device pairing.
type PairingUsecase interface {
	CreateUser(displayName string) (*CreateUserResult, error)
}

type pairingUsecase struct {
	userRepo       repository.UserRepository
	counter        UserCounter
	pairingBaseURL string
	logger         *zap.Logger
	now            func() time.Time
}

// NewPairingUsecase creates a new instance of pairingUsecase
func NewPairingUsecase(userRepo repository.UserRepository, counter UserCounter, pairingBaseURL string, logger *zap.Logger) PairingUsecase {
	return &pairingUsecase{
		userRepo:       userRepo,
		counter:        counter,
		pairingBaseURL: pairingBaseURL,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateUser allocates a new identity from a display name. The suffix space
// (36^16) makes collisions negligible, so no existence check is performed
// before the insert and allocation stays a single non-blocking write.
func (u *pairingUsecase) CreateUser(displayName string) (*CreateUserResult, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, fmt.Errorf("%w: displayName is required", errs.ErrInvalidArgument)
	}

	cleanLabel := strings.TrimSpace(displayName)
	userID := buildUserID(cleanLabel)

	user := &domain.User{
		ID:    userID,
		Label: cleanLabel,
	}
	if err := u.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := u.counter.RecordUserCreated(u.now()); err != nil {
		// Counters are advisory telemetry; the identity is already committed.
		u.logger.Error("failed to record user creation", zap.String("user_id", userID), zap.Error(err))
	}

	u.logger.Info("user created", zap.String("user_id", userID))
	return &CreateUserResult{
		UserID:     userID,
		PairingURL: u.pairingBaseURL + "?pair=" + userID,
	}, nil
}

// buildUserID derives `{slug}-{suffix}` from a label, or a bare suffix when
// the label normalizes to nothing.
func buildUserID(label string) string {
	slug := whitespaceRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "-")
	suffix := generateSuffix(suffixLength)
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}

// generateSuffix returns a random lowercase alphanumeric string.
func generateSuffix(length int) string {
	max := big.NewInt(int64(len(suffixAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken.
			panic(fmt.Sprintf("generate suffix: %v", err))
		}
		b[i] = suffixAlphabet[n.Int64()]
	}
	return string(b)
}

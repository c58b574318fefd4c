package usecase

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"omnicall-backend/internal/device/domain"
	"omnicall-backend/internal/device/repository"
	"omnicall-backend/internal/errs"
	pairingrepo "omnicall-backend/internal/pairing/repository"
)

// DeviceUsecase manages the device token registry.
type DeviceUsecase interface {
	// Register upserts a (user, token) registration. Idempotent for an
	// unchanged token; never touches counters.
	Register(userID, token string, platform domain.Platform, userAgent string) error
	// Unregister removes a single token, e.g. on client-side token refresh.
	Unregister(token string) error
}

type deviceUsecase struct {
	tokenRepo repository.TokenRepository
	userRepo  pairingrepo.UserRepository
	logger    *zap.Logger
}

// NewDeviceUsecase creates a new instance of deviceUsecase
func NewDeviceUsecase(tokenRepo repository.TokenRepository, userRepo pairingrepo.UserRepository, logger *zap.Logger) DeviceUsecase {
	return &deviceUsecase{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

func (u *deviceUsecase) Register(userID, token string, platform domain.Platform, userAgent string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: userId is required", errs.ErrInvalidArgument)
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token is required", errs.ErrInvalidArgument)
	}
	if platform == "" {
		platform = domain.PlatformWeb
	}
	if !platform.Valid() {
		return fmt.Errorf("%w: unknown platform %q", errs.ErrInvalidArgument, platform)
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", errs.ErrNotFound, userID)
	}

	if err := u.tokenRepo.SaveToken(userID, token, platform, userAgent); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	u.logger.Info("device registered",
		zap.String("user_id", userID),
		zap.String("platform", string(platform)))
	return nil
}

func (u *deviceUsecase) Unregister(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token is required", errs.ErrInvalidArgument)
	}
	return u.tokenRepo.DeleteToken(token)
}

package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"omnicall-backend/internal/device/domain"
	"omnicall-backend/internal/device/usecase"
	"omnicall-backend/internal/errs"
)

type DeviceHandler struct {
	deviceUsecase usecase.DeviceUsecase
}

func NewDeviceHandler(deviceUsecase usecase.DeviceUsecase) *DeviceHandler {
	return &DeviceHandler{deviceUsecase: deviceUsecase}
}

type registerDeviceRequest struct {
	UserID    string `json:"userId"`
	Token     string `json:"token"`
	Platform  string `json:"platform"`
	UserAgent string `json:"userAgent"`
}

// RegisterDevice binds a push token to a user identity.
func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.deviceUsecase.Register(req.UserID, req.Token, domain.Platform(req.Platform), req.UserAgent)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register device"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnregisterDevice removes a single token from the registry.
func (h *DeviceHandler) UnregisterDevice(c *gin.Context) {
	token := c.Param("token")
	if err := h.deviceUsecase.Unregister(token); err != nil {
		if errors.Is(err, errs.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unregister device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

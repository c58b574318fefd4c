package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"omnicall-backend/internal/errs"
	"omnicall-backend/internal/notify/usecase"
)

type NotifyHandler struct {
	notifyUsecase usecase.NotifyUsecase
}

func NewNotifyHandler(notifyUsecase usecase.NotifyUsecase) *NotifyHandler {
	return &NotifyHandler{notifyUsecase: notifyUsecase}
}

type notifyRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// SendNotification fans a message out to all of a user's registered devices.
func (h *NotifyHandler) SendNotification(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	result, err := h.notifyUsecase.Dispatch(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send notification"})
		return
	}

	failures := result.Failures
	if failures == nil {
		failures = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"sent":     result.Sent,
		"total":    result.Total,
		"failures": failures,
	})
}

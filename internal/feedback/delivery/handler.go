package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"omnicall-backend/internal/errs"
	"omnicall-backend/internal/feedback/usecase"
)

type FeedbackHandler struct {
	feedbackUsecase usecase.FeedbackUsecase
}

func NewFeedbackHandler(feedbackUsecase usecase.FeedbackUsecase) *FeedbackHandler {
	return &FeedbackHandler{feedbackUsecase: feedbackUsecase}
}

type submitFeedbackRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Message     string `json:"message"`
}

// SubmitFeedback stores a feedback message.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.feedbackUsecase.Submit(req.UserID, req.DisplayName, req.Message); err != nil {
		if errors.Is(err, errs.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Feedback submitted successfully",
	})
}

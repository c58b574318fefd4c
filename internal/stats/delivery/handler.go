package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"omnicall-backend/internal/errs"
	"omnicall-backend/internal/stats/usecase"
)

type StatsHandler struct {
	statsUsecase usecase.StatsUsecase
}

func NewStatsHandler(statsUsecase usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{statsUsecase: statsUsecase}
}

// GetStats returns the personal and global counter scopes for a user.
func (h *StatsHandler) GetStats(c *gin.Context) {
	userID := c.Param("userId")

	stats, err := h.statsUsecase.GetStats(userID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"personal": stats.Personal,
		"global":   stats.Global,
	})
}

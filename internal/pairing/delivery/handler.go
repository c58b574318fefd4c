package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"omnicall-backend/internal/errs"
	"omnicall-backend/internal/pairing/usecase"
)

type PairingHandler struct {
	pairingUsecase usecase.PairingUsecase
}

func NewPairingHandler(pairingUsecase usecase.PairingUsecase) *PairingHandler {
	return &PairingHandler{pairingUsecase: pairingUsecase}
}

type createUserRequest struct {
	DisplayName string `json:"displayName"`
}

// CreateUser allocates a new identity and returns its pairing URL.
func (h *PairingHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "displayName is required"})
		return
	}

	result, err := h.pairingUsecase.CreateUser(req.DisplayName)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"userId":     result.UserID,
		"pairingUrl": result.PairingURL,
	})
}

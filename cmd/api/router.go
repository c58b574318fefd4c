package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	deviceDelivery "omnicall-backend/internal/device/delivery"
	deviceUsecase "omnicall-backend/internal/device/usecase"
	feedbackDelivery "omnicall-backend/internal/feedback/delivery"
	feedbackUsecase "omnicall-backend/internal/feedback/usecase"
	notifyDelivery "omnicall-backend/internal/notify/delivery"
	notifyUsecase "omnicall-backend/internal/notify/usecase"
	pairingDelivery "omnicall-backend/internal/pairing/delivery"
	pairingUsecase "omnicall-backend/internal/pairing/usecase"
	statsDelivery "omnicall-backend/internal/stats/delivery"
	statsUsecase "omnicall-backend/internal/stats/usecase"
)

func SetupRoutes(
	r *gin.Engine,
	pairingUc pairingUsecase.PairingUsecase,
	deviceUc deviceUsecase.DeviceUsecase,
	notifyUc notifyUsecase.NotifyUsecase,
	statsUc statsUsecase.StatsUsecase,
	feedbackUc feedbackUsecase.FeedbackUsecase,
) {
	pairingHandler := pairingDelivery.NewPairingHandler(pairingUc)
	deviceHandler := deviceDelivery.NewDeviceHandler(deviceUc)
	notifyHandler := notifyDelivery.NewNotifyHandler(notifyUc)
	statsHandler := statsDelivery.NewStatsHandler(statsUc)
	feedbackHandler := feedbackDelivery.NewFeedbackHandler(feedbackUc)

	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Pairing: identity allocation for new users
		api.POST("/users", pairingHandler.CreateUser)

		// Device registry: token registration and refresh
		devices := api.Group("/devices")
		{
			devices.POST("/register", deviceHandler.RegisterDevice)
			devices.DELETE("/:token", deviceHandler.UnregisterDevice)
		}

		// Notify: dispatch path used by the desktop detector
		api.POST("/notify", notifyHandler.SendNotification)

		// Feedback
		api.POST("/feedback", feedbackHandler.SubmitFeedback)

		// Stats
		api.GET("/stats/:userId", statsHandler.GetStats)
	}
}

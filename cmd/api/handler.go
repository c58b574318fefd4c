package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	deviceUsecase "omnicall-backend/internal/device/usecase"
	feedbackUsecase "omnicall-backend/internal/feedback/usecase"
	notifyUsecase "omnicall-backend/internal/notify/usecase"
	pairingUsecase "omnicall-backend/internal/pairing/usecase"
	statsUsecase "omnicall-backend/internal/stats/usecase"
	"omnicall-backend/pkg/config"
)

type Handler struct {
	pairingUsecase  pairingUsecase.PairingUsecase
	deviceUsecase   deviceUsecase.DeviceUsecase
	notifyUsecase   notifyUsecase.NotifyUsecase
	statsUsecase    statsUsecase.StatsUsecase
	feedbackUsecase feedbackUsecase.FeedbackUsecase
	config          *config.Config
}

func NewHandler(
	pairingUc pairingUsecase.PairingUsecase,
	deviceUc deviceUsecase.DeviceUsecase,
	notifyUc notifyUsecase.NotifyUsecase,
	statsUc statsUsecase.StatsUsecase,
	feedbackUc feedbackUsecase.FeedbackUsecase,
	cfg *config.Config,
) *Handler {
	return &Handler{
		pairingUsecase:  pairingUc,
		deviceUsecase:   deviceUc,
		notifyUsecase:   notifyUc,
		statsUsecase:    statsUc,
		feedbackUsecase: feedbackUc,
		config:          cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// Only the PWA calls these endpoints cross-origin; the desktop app sends
	// no Origin header and is unaffected by CORS.
	r.Use(corsMiddleware(pwaOrigin(h.config.PairingBaseURL)))

	SetupRoutes(r, h.pairingUsecase, h.deviceUsecase, h.notifyUsecase, h.statsUsecase, h.feedbackUsecase)

	return r.Run(addr)
}

// corsMiddleware allows cross-origin requests from allowedOrigin only.
func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && origin == allowedOrigin {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// pwaOrigin reduces the pairing base URL to its origin for CORS checks.
func pwaOrigin(pairingBaseURL string) string {
	u, err := url.Parse(pairingBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// services/analytics/internal/handler/analytics_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/analytics/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/services/analytics/internal/service"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/middleware"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
	logger  *zap.Logger
}

// NewAnalyticsHandler creates the HTTP handler for analytics routes
func NewAnalyticsHandler(service *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AnalyticsHandler) Register(v1 *gin.RouterGroup) {
	analytics := v1.Group("/analytics")
	{
		analytics.GET("/metrics", h.GetMetrics)
	}
}

// GetMetrics reads ?period= and, for custom periods, ?from= and ?to=.
func (h *AnalyticsHandler) GetMetrics(c *gin.Context) {
	period := models.Period{Kind: models.PeriodKind(c.DefaultQuery("period", string(models.PeriodCurrentMonth)))}

	if period.Kind == models.PeriodCustom {
		from, err := middleware.QueryDate(c, "from")
		if err != nil {
			middleware.RespondError(c, h.logger, err, "")
			return
		}
		to, err := middleware.QueryDate(c, "to")
		if err != nil {
			middleware.RespondError(c, h.logger, err, "")
			return
		}
		period.Start, period.End = from, to
	}

	metrics, err := h.service.Metrics(c.Request.Context(), period)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to compute metrics")
		return
	}
	c.JSON(http.StatusOK, metrics)
}

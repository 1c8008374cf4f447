// services/pricing/internal/handler/pricing_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/pricing/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/services/pricing/internal/service"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/middleware"
)

const defaultCalendarDays = 30

type PricingHandler struct {
	service *service.PricingService
	logger  *zap.Logger
}

// NewPricingHandler creates the HTTP handler for pricing routes
func NewPricingHandler(service *service.PricingService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PricingHandler) Register(v1 *gin.RouterGroup) {
	pricing := v1.Group("/pricing")
	{
		pricing.GET("/suggest", h.SuggestQuery)
		pricing.POST("/suggest", h.Suggest)
		pricing.GET("/calendar", h.Calendar)
		pricing.POST("/train", h.Train)
		pricing.GET("/status", h.Status)
	}
}

func (h *PricingHandler) Suggest(c *gin.Context) {
	var req models.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.suggest(c, req)
}

func (h *PricingHandler) SuggestQuery(c *gin.Context) {
	var req models.SuggestionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.suggest(c, req)
}

func (h *PricingHandler) suggest(c *gin.Context, req models.SuggestionRequest) {
	suggestion, err := h.service.Suggest(c.Request.Context(), req)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to suggest price")
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

func (h *PricingHandler) Calendar(c *gin.Context) {
	days := defaultCalendarDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = n
	}

	calendar, err := h.service.Calendar(c.Request.Context(), days)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to build pricing calendar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": calendar})
}

func (h *PricingHandler) Train(c *gin.Context) {
	status, err := h.service.Train(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to train pricing model")
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *PricingHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"model": h.service.Status(),
		"cache": h.service.CacheStats(),
	})
}

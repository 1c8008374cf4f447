// services/ledger/internal/handler/ledger_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/ledger/internal/service"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/middleware"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

type LedgerHandler struct {
	service *service.LedgerService
	logger  *zap.Logger
}

// NewLedgerHandler creates the HTTP handler for ledger routes
func NewLedgerHandler(service *service.LedgerService, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the ledger, booking and expense routes on v1.
func (h *LedgerHandler) Register(v1 *gin.RouterGroup) {
	ledger := v1.Group("/ledger")
	{
		ledger.GET("/entries", h.ListEntries)
		ledger.POST("/entries", h.UpsertEntry)
		ledger.GET("/entries/:id", h.GetEntry)
		ledger.PUT("/entries/:id", h.UpsertEntry)
		ledger.DELETE("/entries/:id", h.DeleteEntry)

		ledger.GET("/transfers", h.ListTransfers)
		ledger.POST("/transfers", h.AddTransfer)
		ledger.GET("/transfers/:id", h.GetTransfer)
		ledger.PUT("/transfers/:id", h.UpdateTransfer)
		ledger.DELETE("/transfers/:id", h.DeleteTransfer)

		ledger.POST("/generate", h.GenerateFromBookings)
		ledger.GET("/summaries", h.MonthlySummaries)
		ledger.GET("/search", h.Search)
		ledger.POST("/reconcile", h.Reconcile)
		ledger.GET("/reconciliations", h.ReconciliationHistory)
	}

	bookings := v1.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.SaveBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.SaveBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
	}

	expenses := v1.Group("/expenses")
	{
		expenses.GET("", h.ListExpenses)
		expenses.POST("", h.SaveExpense)
		expenses.PUT("/:id", h.SaveExpense)
		expenses.DELETE("/:id", h.DeleteExpense)
	}
}

func (h *LedgerHandler) rangeQuery(c *gin.Context) (store.Query, bool) {
	from, err := middleware.QueryDate(c, "from")
	if err != nil {
		middleware.RespondError(c, h.logger, err, "")
		return store.Query{}, false
	}
	to, err := middleware.QueryDate(c, "to")
	if err != nil {
		middleware.RespondError(c, h.logger, err, "")
		return store.Query{}, false
	}
	return store.Query{From: from, To: to}, true
}

func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *LedgerHandler) ListEntries(c *gin.Context) {
	q, ok := h.rangeQuery(c)
	if !ok {
		return
	}
	entries, err := h.service.ListEntries(c.Request.Context(), q)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *LedgerHandler) GetEntry(c *gin.Context) {
	entry, err := h.service.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to get ledger entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *LedgerHandler) UpsertEntry(c *gin.Context) {
	var entry domain.LedgerEntry
	if !bind(c, &entry) {
		return
	}
	status := http.StatusCreated
	if id := c.Param("id"); id != "" {
		entry.ID = id
		status = http.StatusOK
	}

	saved, err := h.service.UpsertEntry(c.Request.Context(), entry)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to save ledger entry")
		return
	}
	c.JSON(status, saved)
}

func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	if err := h.service.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to delete ledger entry")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LedgerHandler) ListTransfers(c *gin.Context) {
	q, ok := h.rangeQuery(c)
	if !ok {
		return
	}
	transfers, err := h.service.ListTransfers(c.Request.Context(), q)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to list wire transfers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfers": transfers})
}

func (h *LedgerHandler) GetTransfer(c *gin.Context) {
	transfer, err := h.service.GetTransfer(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to get wire transfer")
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *LedgerHandler) AddTransfer(c *gin.Context) {
	var transfer domain.WireTransfer
	if !bind(c, &transfer) {
		return
	}
	result, err := h.service.AddTransfer(c.Request.Context(), transfer)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to add wire transfer")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *LedgerHandler) UpdateTransfer(c *gin.Context) {
	var transfer domain.WireTransfer
	if !bind(c, &transfer) {
		return
	}
	transfer.ID = c.Param("id")

	result, err := h.service.UpdateTransfer(c.Request.Context(), transfer)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to update wire transfer")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *LedgerHandler) DeleteTransfer(c *gin.Context) {
	if err := h.service.DeleteTransfer(c.Request.Context(), c.Param("id")); err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to delete wire transfer")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LedgerHandler) GenerateFromBookings(c *gin.Context) {
	result, err := h.service.GenerateFromBookings(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to generate ledger entries")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *LedgerHandler) MonthlySummaries(c *gin.Context) {
	summaries, err := h.service.MonthlySummaries(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to compute monthly summaries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

func (h *LedgerHandler) Search(c *gin.Context) {
	result, err := h.service.SearchLedger(c.Request.Context(), c.Query("q"))
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Search failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *LedgerHandler) Reconcile(c *gin.Context) {
	report, err := h.service.Reconcile(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Reconciliation failed")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *LedgerHandler) ReconciliationHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	history, err := h.service.ReconciliationHistory(c.Request.Context(), limit)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to load reconciliation history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": history})
}

func (h *LedgerHandler) ListBookings(c *gin.Context) {
	q, ok := h.rangeQuery(c)
	if !ok {
		return
	}
	bookings, err := h.service.ListBookings(c.Request.Context(), q)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to list bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *LedgerHandler) GetBooking(c *gin.Context) {
	booking, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to get booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *LedgerHandler) SaveBooking(c *gin.Context) {
	var booking domain.Booking
	if !bind(c, &booking) {
		return
	}
	status := http.StatusCreated
	if id := c.Param("id"); id != "" {
		booking.ID = id
		status = http.StatusOK
	}

	saved, err := h.service.SaveBooking(c.Request.Context(), booking)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to save booking")
		return
	}
	c.JSON(status, saved)
}

func (h *LedgerHandler) DeleteBooking(c *gin.Context) {
	if err := h.service.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to delete booking")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	q, ok := h.rangeQuery(c)
	if !ok {
		return
	}
	expenses, err := h.service.ListExpenses(c.Request.Context(), q)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func (h *LedgerHandler) SaveExpense(c *gin.Context) {
	var expense domain.Expense
	if !bind(c, &expense) {
		return
	}
	status := http.StatusCreated
	if id := c.Param("id"); id != "" {
		expense.ID = id
		status = http.StatusOK
	}

	saved, err := h.service.SaveExpense(c.Request.Context(), expense)
	if err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to save expense")
		return
	}
	c.JSON(status, saved)
}

func (h *LedgerHandler) DeleteExpense(c *gin.Context) {
	if err := h.service.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		middleware.RespondError(c, h.logger, err, "Failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}

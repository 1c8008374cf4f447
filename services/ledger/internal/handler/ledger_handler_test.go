package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/ledger/internal/repository"
	"github.com/CSINCE90/bnb-manager-macos-sub000/services/ledger/internal/service"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/clock"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewLedgerService(
		store.NewMemoryStore(),
		repository.NewMemoryReportRepository(),
		clock.NewFixed(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		zap.NewNop(),
	)
	r := gin.New()
	NewLedgerHandler(svc, zap.NewNop()).Register(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBookingToSummaryFlow(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/v1/bookings", map[string]interface{}{
		"guest_name":  "Mario Rossi",
		"check_in":    "2024-07-10T00:00:00Z",
		"check_out":   "2024-07-13T00:00:00Z",
		"guest_count": 2,
		"total_price": "300",
		"status":      "confirmed",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/ledger/generate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var gen struct {
		Created []map[string]interface{} `json:"created"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gen))
	assert.Len(t, gen.Created, 1)

	w = do(r, http.MethodGet, "/api/v1/ledger/summaries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sums struct {
		Summaries []struct {
			Year        int    `json:"year"`
			Month       int    `json:"month"`
			TotalIncome string `json:"total_income"`
		} `json:"summaries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sums))
	require.Len(t, sums.Summaries, 1)
	assert.Equal(t, 7, sums.Summaries[0].Month)
	assert.Equal(t, "300", sums.Summaries[0].TotalIncome)
}

func TestTransferEndpoints(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/v1/ledger/transfers", map[string]interface{}{
		"amount":     "150",
		"fees":       "1.5",
		"date":       "2024-06-03T00:00:00Z",
		"payer_name": "Anna",
		"direction":  "received",
		"status":     "completed",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Transfer struct {
			ID                  string `json:"id"`
			LinkedLedgerEntryID string `json:"linked_ledger_entry_id"`
		} `json:"transfer"`
		Entry struct {
			ID     string `json:"id"`
			Amount string `json:"amount"`
		} `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, res.Entry.ID, res.Transfer.LinkedLedgerEntryID)
	assert.Equal(t, "148.5", res.Entry.Amount)

	w = do(r, http.MethodGet, "/api/v1/ledger/search?q=anna", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), res.Transfer.ID)

	w = do(r, http.MethodDelete, "/api/v1/ledger/transfers/"+res.Transfer.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/v1/ledger/entries/"+res.Entry.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorMapping(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodDelete, "/api/v1/ledger/entries/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/api/v1/ledger/transfers/nope", map[string]interface{}{
		"amount":    "10",
		"date":      "2024-06-03T00:00:00Z",
		"direction": "sent",
		"status":    "pending",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/v1/ledger/entries", map[string]interface{}{
		"description":    "mismatch",
		"amount":         "10",
		"date":           "2024-06-03T00:00:00Z",
		"direction":      "income",
		"category":       "cleaning",
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodGet, "/api/v1/ledger/entries?from=June", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/analytics/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/services/analytics/internal/service"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/clock"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	require.NoError(t, st.Bookings().Upsert(context.Background(), domain.Booking{
		ID:         "b1",
		GuestName:  "Mario Rossi",
		CheckIn:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		GuestCount: 2,
		TotalPrice: decimal.NewFromInt(3000),
		Status:     domain.BookingConfirmed,
	}))

	svc := service.NewAnalyticsService(st, clock.NewFixed(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)), zap.NewNop(), "")
	r := gin.New()
	NewAnalyticsHandler(svc, zap.NewNop()).Register(r.Group("/api/v1"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetMetrics(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/api/v1/analytics/metrics")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var m models.BusinessMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, 100.0, m.OccupancyRate)
	assert.True(t, m.RevenuePerNight.Equal(decimal.NewFromInt(100)))

	w = get(r, "/api/v1/analytics/metrics?period=custom&from=2024-06-10&to=2024-06-20")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, 100.0, m.OccupancyRate)
	assert.True(t, m.Revenue.IsZero(), "check-in is before the range")
}

func TestGetMetricsErrors(t *testing.T) {
	r := newRouter(t)

	assert.Equal(t, http.StatusUnprocessableEntity, get(r, "/api/v1/analytics/metrics?period=week").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(r, "/api/v1/analytics/metrics?period=custom&from=2024-06-10").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(r, "/api/v1/analytics/metrics?period=custom&from=10/06/2024&to=2024-06-20").Code)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/analytics/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/clock"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

func TestAnalyticsServiceMetrics(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	villa := booking("b1", date(2024, 6, 1), date(2024, 7, 1), 3000, domain.BookingConfirmed)
	villa.PropertyID = "villa"
	flat := booking("b2", date(2024, 6, 3), date(2024, 6, 5), 999, domain.BookingConfirmed)
	flat.PropertyID = "flat"
	require.NoError(t, st.Bookings().Upsert(ctx, villa))
	require.NoError(t, st.Bookings().Upsert(ctx, flat))
	require.NoError(t, st.Expenses().Upsert(ctx, domain.Expense{
		ID: "e1", PropertyID: "villa", Description: "cleaning", Amount: decimal.NewFromInt(600),
		Date: date(2024, 6, 10), Category: domain.ExpenseCleaning,
	}))

	clk := clock.NewFixed(time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC))
	svc := NewAnalyticsService(st, clk, zap.NewNop(), "villa")

	m, err := svc.Metrics(ctx, models.Period{Kind: models.PeriodCurrentMonth})
	require.NoError(t, err)
	assert.Equal(t, models.PeriodCurrentMonth, m.Period)
	assert.True(t, m.Revenue.Equal(decimal.NewFromInt(3000)), m.Revenue.String())
	assert.True(t, m.Profit.Equal(decimal.NewFromInt(2400)))
	assert.Equal(t, 80.0, m.ProfitMargin)
	assert.Equal(t, 100.0, m.OccupancyRate)

	prev, err := svc.Metrics(ctx, models.Period{Kind: models.PeriodPreviousMonth})
	require.NoError(t, err)
	assert.True(t, prev.Revenue.IsZero())
	assert.Len(t, prev.MonthlyTrend, 1, "trend ignores the period")

	_, err = svc.Metrics(ctx, models.Period{Kind: "decade"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAnalyticsServiceAllProperties(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := booking("a", date(2024, 6, 1), date(2024, 6, 2), 100, domain.BookingConfirmed)
	a.PropertyID = "villa"
	b := booking("b", date(2024, 6, 1), date(2024, 6, 2), 50, domain.BookingConfirmed)
	b.PropertyID = "flat"
	require.NoError(t, st.Bookings().Upsert(ctx, a))
	require.NoError(t, st.Bookings().Upsert(ctx, b))

	svc := NewAnalyticsService(st, clock.NewFixed(date(2024, 6, 15)), zap.NewNop(), "")
	m, err := svc.Metrics(ctx, models.Period{})
	require.NoError(t, err)
	assert.True(t, m.Revenue.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 2, m.BookingCount)
}

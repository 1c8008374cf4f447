package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/analytics/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func booking(id string, in, out time.Time, price int64, status domain.BookingStatus) domain.Booking {
	return domain.Booking{
		ID:         id,
		GuestName:  "guest " + id,
		CheckIn:    in,
		CheckOut:   out,
		GuestCount: 2,
		TotalPrice: decimal.NewFromInt(price),
		Status:     status,
	}
}

func june() models.DateRange {
	return models.DateRange{Start: date(2024, 6, 1), End: date(2024, 7, 1)}
}

func TestFullMonthOccupancy(t *testing.T) {
	bookings := []domain.Booking{
		booking("b1", date(2024, 6, 1), date(2024, 7, 1), 3000, domain.BookingConfirmed),
	}

	m := ComputeMetrics(models.PeriodCurrentMonth, june(), bookings, nil, date(2024, 6, 15))

	assert.Equal(t, 100.0, m.OccupancyRate)
	assert.True(t, m.RevenuePerNight.Equal(decimal.NewFromInt(100)), m.RevenuePerNight.String())
	assert.True(t, m.Revenue.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 30.0, m.AverageStayLength)
	assert.Equal(t, 1, m.BookingCount)
	assert.Equal(t, 100.0, m.ProfitMargin)
}

func TestOccupancyClampsToRange(t *testing.T) {
	bookings := []domain.Booking{
		booking("before", date(2024, 5, 28), date(2024, 6, 4), 700, domain.BookingConfirmed),
		booking("after", date(2024, 6, 28), date(2024, 7, 5), 700, domain.BookingPending),
		booking("cancelled", date(2024, 6, 10), date(2024, 6, 20), 1000, domain.BookingCancelled),
		booking("outside", date(2024, 8, 1), date(2024, 8, 3), 200, domain.BookingConfirmed),
	}

	assert.Equal(t, 20.0, OccupancyRate(june(), bookings), "3 + 3 of 30 nights")
}

func TestOccupancyCappedAtHundred(t *testing.T) {
	bookings := []domain.Booking{
		booking("a", date(2024, 6, 1), date(2024, 7, 1), 1, domain.BookingConfirmed),
		booking("b", date(2024, 6, 1), date(2024, 6, 10), 1, domain.BookingConfirmed),
	}
	assert.Equal(t, 100.0, OccupancyRate(june(), bookings))
}

func TestRevenueAndExpenses(t *testing.T) {
	bookings := []domain.Booking{
		booking("b1", date(2024, 6, 5), date(2024, 6, 8), 300, domain.BookingConfirmed),
		booking("b2", date(2024, 6, 20), date(2024, 6, 21), 100, domain.BookingCompleted),
		booking("b3", date(2024, 6, 22), date(2024, 6, 25), 999, domain.BookingPending),
		booking("b4", date(2024, 5, 30), date(2024, 6, 2), 400, domain.BookingConfirmed),
	}
	expenses := []domain.Expense{
		{ID: "e1", Amount: decimal.NewFromInt(50), Date: date(2024, 6, 3), Category: domain.ExpenseCleaning},
		{ID: "e2", Amount: decimal.NewFromInt(30), Date: date(2024, 6, 9), Category: domain.ExpenseCleaning},
		{ID: "e3", Amount: decimal.NewFromInt(20), Date: date(2024, 6, 30), Category: domain.ExpenseUtilities},
		{ID: "e4", Amount: decimal.NewFromInt(500), Date: date(2024, 7, 1), Category: domain.ExpenseTaxes},
	}

	m := ComputeMetrics(models.PeriodCustom, june(), bookings, expenses, date(2024, 6, 30))

	assert.True(t, m.Revenue.Equal(decimal.NewFromInt(400)), m.Revenue.String())
	assert.True(t, m.Expenses.Equal(decimal.NewFromInt(100)), m.Expenses.String())
	assert.True(t, m.Profit.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 75.0, m.ProfitMargin)
	assert.Equal(t, 2, m.BookingCount)
	assert.Equal(t, 2.0, m.AverageStayLength)
	assert.True(t, m.RevenuePerNight.Equal(decimal.NewFromInt(100)), m.RevenuePerNight.String())
	assert.True(t, m.ExpensesByCategory[domain.ExpenseCleaning].Equal(decimal.NewFromInt(80)))
	assert.True(t, m.ExpensesByCategory[domain.ExpenseUtilities].Equal(decimal.NewFromInt(20)))
	assert.NotContains(t, m.ExpensesByCategory, domain.ExpenseTaxes)
}

func TestEmptyPeriod(t *testing.T) {
	m := ComputeMetrics(models.PeriodCurrentMonth, june(), nil, nil, date(2024, 6, 15))

	assert.True(t, m.Revenue.IsZero())
	assert.True(t, m.RevenuePerNight.IsZero())
	assert.Equal(t, 0.0, m.ProfitMargin)
	assert.Equal(t, 0.0, m.OccupancyRate)
	assert.Equal(t, 0.0, m.AverageStayLength)
	assert.Empty(t, m.MonthlyTrend)
	assert.True(t, m.ForecastedRevenue.IsZero())
}

func TestMonthlyTrendUsesAllBookings(t *testing.T) {
	bookings := []domain.Booking{
		booking("b1", date(2024, 6, 5), date(2024, 6, 8), 300, domain.BookingConfirmed),
		booking("b2", date(2023, 12, 20), date(2023, 12, 22), 200, domain.BookingCompleted),
		booking("b3", date(2024, 6, 10), date(2024, 6, 12), 100, domain.BookingConfirmed),
		booking("b4", date(2024, 1, 10), date(2024, 1, 12), 500, domain.BookingCancelled),
	}

	trend := MonthlyTrend(bookings)
	require.Len(t, trend, 3)
	assert.Equal(t, 2023, trend[0].Year)
	assert.Equal(t, time.December, trend[0].Month)
	assert.Equal(t, 1, trend[0].Bookings)
	assert.True(t, trend[0].Revenue.Equal(decimal.NewFromInt(200)))

	assert.Equal(t, time.January, trend[1].Month)
	assert.Equal(t, 1, trend[1].Bookings, "cancelled booking is counted")
	assert.True(t, trend[1].Revenue.IsZero(), "but earns nothing")

	assert.Equal(t, time.June, trend[2].Month)
	assert.Equal(t, 2, trend[2].Bookings)
	assert.True(t, trend[2].Revenue.Equal(decimal.NewFromInt(400)))

	assert.Equal(t, 0.0, RevenueGrowth(trend), "previous month earned nothing")
	assert.Equal(t, 100.0, RevenueGrowth([]models.TrendPoint{trend[0], trend[2]}))
}

func TestRevenueGrowthEdges(t *testing.T) {
	assert.Equal(t, 0.0, RevenueGrowth(nil))
	assert.Equal(t, 0.0, RevenueGrowth([]models.TrendPoint{{Revenue: decimal.NewFromInt(10)}}))
	assert.Equal(t, 0.0, RevenueGrowth([]models.TrendPoint{
		{Revenue: decimal.Zero},
		{Revenue: decimal.NewFromInt(10)},
	}))
	assert.Equal(t, -50.0, RevenueGrowth([]models.TrendPoint{
		{Revenue: decimal.NewFromInt(200)},
		{Revenue: decimal.NewFromInt(100)},
	}))
}

func TestForecastRevenue(t *testing.T) {
	now := date(2024, 6, 30)
	bookings := []domain.Booking{
		booking("recent1", date(2024, 6, 1), date(2024, 6, 3), 300, domain.BookingConfirmed),
		booking("recent2", date(2024, 4, 15), date(2024, 4, 18), 600, domain.BookingCompleted),
		booking("old", date(2024, 1, 1), date(2024, 1, 3), 9000, domain.BookingConfirmed),
		booking("pending", date(2024, 6, 10), date(2024, 6, 12), 9000, domain.BookingPending),
	}

	// mean 450 / 3 * 1.05
	f := ForecastRevenue(bookings, now)
	assert.True(t, f.Equal(decimal.RequireFromString("157.5")), f.String())
}

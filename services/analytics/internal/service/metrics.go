// services/analytics/internal/service/metrics.go
package service

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/analytics/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

const (
	forecastWindowDays = 90
	forecastGrowth     = 1.05
)

var (
	hundred      = decimal.NewFromInt(100)
	forecastDivs = decimal.NewFromInt(3)
)

// ComputeMetrics derives the business metrics for r. Revenue, stay length and
// nights count confirmed and completed bookings that check in inside the
// range. Occupancy counts every booking that is not cancelled, clipped to the
// range. The trend and the forecast look at the whole booking history.
func ComputeMetrics(kind models.PeriodKind, r models.DateRange, bookings []domain.Booking, expenses []domain.Expense, now time.Time) models.BusinessMetrics {
	m := models.BusinessMetrics{
		Period:             kind,
		Range:              r,
		Revenue:            decimal.Zero,
		Expenses:           decimal.Zero,
		RevenuePerNight:    decimal.Zero,
		ForecastedRevenue:  decimal.Zero,
		ExpensesByCategory: make(map[domain.ExpenseCategory]decimal.Decimal),
	}

	var nights int
	for _, b := range bookings {
		if !b.EarnsRevenue() || !r.Contains(b.CheckIn) {
			continue
		}
		m.Revenue = m.Revenue.Add(b.TotalPrice)
		nights += b.Nights()
		m.BookingCount++
	}

	for _, e := range expenses {
		if !r.Contains(e.Date) {
			continue
		}
		m.Expenses = m.Expenses.Add(e.Amount)
		m.ExpensesByCategory[e.Category] = m.ExpensesByCategory[e.Category].Add(e.Amount)
	}

	m.OccupancyRate = OccupancyRate(r, bookings)
	if m.BookingCount > 0 {
		m.AverageStayLength = round2(float64(nights) / float64(m.BookingCount))
	}
	if nights > 0 {
		m.RevenuePerNight = m.Revenue.Div(decimal.NewFromInt(int64(nights))).Round(2)
	}

	m.Profit = m.Revenue.Sub(m.Expenses)
	if !m.Revenue.IsZero() {
		margin, _ := m.Profit.Div(m.Revenue).Mul(hundred).Float64()
		m.ProfitMargin = round2(margin)
	}

	m.MonthlyTrend = MonthlyTrend(bookings)
	m.RevenueGrowth = RevenueGrowth(m.MonthlyTrend)
	m.ForecastedRevenue = ForecastRevenue(bookings, now)
	return m
}

// OccupancyRate is the share of nights in r covered by bookings, as a
// percentage capped at 100.
func OccupancyRate(r models.DateRange, bookings []domain.Booking) float64 {
	days := r.Days()
	if days <= 0 {
		return 0
	}

	var occupied int
	for _, b := range bookings {
		if b.Status == domain.BookingCancelled {
			continue
		}
		start := maxTime(domain.CivilDate(b.CheckIn), r.Start)
		end := minTime(domain.CivilDate(b.CheckOut), r.End)
		if n := domain.DaysBetween(start, end); n > 0 {
			occupied += n
		}
	}
	return round2(math.Min(100, float64(occupied)/float64(days)*100))
}

// MonthlyTrend groups every booking by check-in month, oldest first. Each
// point counts all bookings of the month; revenue only sums confirmed and
// completed ones.
func MonthlyTrend(bookings []domain.Booking) []models.TrendPoint {
	byMonth := make(map[domain.MonthKey]*models.TrendPoint)
	for _, b := range bookings {
		key := domain.MonthOf(b.CheckIn)
		p, ok := byMonth[key]
		if !ok {
			p = &models.TrendPoint{Year: key.Year, Month: key.Month, Revenue: decimal.Zero}
			byMonth[key] = p
		}
		if b.EarnsRevenue() {
			p.Revenue = p.Revenue.Add(b.TotalPrice)
		}
		p.Bookings++
	}

	keys := make([]domain.MonthKey, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	trend := make([]models.TrendPoint, 0, len(keys))
	for _, k := range keys {
		trend = append(trend, *byMonth[k])
	}
	return trend
}

// RevenueGrowth compares the last two trend points, in percent. It is zero
// when there is no earlier month or the earlier month earned nothing.
func RevenueGrowth(trend []models.TrendPoint) float64 {
	if len(trend) < 2 {
		return 0
	}
	prev, last := trend[len(trend)-2].Revenue, trend[len(trend)-1].Revenue
	if prev.IsZero() {
		return 0
	}
	g, _ := last.Sub(prev).Div(prev).Mul(hundred).Float64()
	return round2(g)
}

// ForecastRevenue is a naive placeholder, not a fitted model: the mean price
// of revenue bookings checked in over the last 90 days, divided by three and
// grown by 5%.
func ForecastRevenue(bookings []domain.Booking, now time.Time) decimal.Decimal {
	today := domain.CivilDate(now)
	window := models.DateRange{Start: today.AddDate(0, 0, -forecastWindowDays), End: today.AddDate(0, 0, 1)}

	sum := decimal.Zero
	var n int64
	for _, b := range bookings {
		if b.EarnsRevenue() && window.Contains(b.CheckIn) {
			sum = sum.Add(b.TotalPrice)
			n++
		}
	}
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(n)).Div(forecastDivs).Mul(decimal.NewFromFloat(forecastGrowth)).Round(2)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// services/analytics/internal/models/analytics.go
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

// PeriodKind selects the reporting window
type PeriodKind string

const (
	PeriodCurrentMonth  PeriodKind = "current_month"
	PeriodPreviousMonth PeriodKind = "previous_month"
	PeriodCurrentYear   PeriodKind = "current_year"
	PeriodCustom        PeriodKind = "custom"
)

// Period names a reporting window. Start and End are only read for custom
// periods.
type Period struct {
	Kind  PeriodKind `json:"kind" form:"period"`
	Start time.Time  `json:"start,omitempty"`
	End   time.Time  `json:"end,omitempty"`
}

// DateRange is a half-open range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days is the number of calendar days in the range.
func (r DateRange) Days() int {
	return domain.DaysBetween(r.Start, r.End)
}

// Contains reports whether t falls in the half-open range [Start, End)
func (r DateRange) Contains(t time.Time) bool {
	d := domain.CivilDate(t)
	return !d.Before(r.Start) && d.Before(r.End)
}

// Resolve turns the period into concrete dates relative to now.
func (p Period) Resolve(now time.Time) (DateRange, error) {
	today := domain.CivilDate(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch p.Kind {
	case PeriodCurrentMonth, "":
		return DateRange{Start: monthStart, End: monthStart.AddDate(0, 1, 0)}, nil
	case PeriodPreviousMonth:
		return DateRange{Start: monthStart.AddDate(0, -1, 0), End: monthStart}, nil
	case PeriodCurrentYear:
		yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: yearStart, End: yearStart.AddDate(1, 0, 0)}, nil
	case PeriodCustom:
		if p.Start.IsZero() || p.End.IsZero() {
			return DateRange{}, domain.Invalid("custom period needs start and end")
		}
		r := DateRange{Start: domain.CivilDate(p.Start), End: domain.CivilDate(p.End)}
		if !r.Start.Before(r.End) {
			return DateRange{}, domain.Invalid("period end %s must be after start %s",
				r.End.Format("2006-01-02"), r.Start.Format("2006-01-02"))
		}
		return r, nil
	default:
		return DateRange{}, domain.Invalid("unknown period %q", p.Kind)
	}
}

// TrendPoint is one month of the booking trend
type TrendPoint struct {
	Year     int             `json:"year"`
	Month    time.Month      `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Bookings int             `json:"bookings"`
}

type BusinessMetrics struct {
	Period             PeriodKind                                 `json:"period"`
	Range              DateRange                                  `json:"range"`
	Revenue            decimal.Decimal                            `json:"revenue"`
	Expenses           decimal.Decimal                            `json:"expenses"`
	Profit             decimal.Decimal                            `json:"profit"`
	ProfitMargin       float64                                    `json:"profit_margin"`
	OccupancyRate      float64                                    `json:"occupancy_rate"`
	AverageStayLength  float64                                    `json:"average_stay_length"`
	RevenuePerNight    decimal.Decimal                            `json:"revenue_per_night"`
	BookingCount       int                                        `json:"booking_count"`
	MonthlyTrend       []TrendPoint                               `json:"monthly_trend"`
	RevenueGrowth      float64                                    `json:"revenue_growth"`
	ForecastedRevenue  decimal.Decimal                            `json:"forecasted_revenue"`
	ExpensesByCategory map[domain.ExpenseCategory]decimal.Decimal `json:"expenses_by_category"`
}

package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/pricing/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekdayNumbering(t *testing.T) {
	assert.Equal(t, 1, Weekday(date(2024, 7, 7)), "sunday")
	assert.Equal(t, 2, Weekday(date(2024, 7, 8)), "monday")
	assert.Equal(t, 6, Weekday(date(2024, 7, 12)), "friday")
	assert.Equal(t, 7, Weekday(date(2024, 7, 13)), "saturday")
}

func TestExtractFeatures(t *testing.T) {
	f := ExtractFeatures(8, 7, 3, 2, 14)
	assert.Equal(t, Features{8, 7, 3, 2, 14, 1, 1, 1}, f)

	f = ExtractFeatures(1, 3, 1, 0, 0)
	assert.Equal(t, Features{1, 3, 1, 0, 0, 0, 0, 0}, f)
}

func TestBookingSample(t *testing.T) {
	b := domain.Booking{
		CheckIn:    date(2024, 7, 12),
		CheckOut:   date(2024, 7, 15),
		GuestCount: 2,
		TotalPrice: decimal.NewFromInt(300),
		Status:     domain.BookingConfirmed,
		CreatedAt:  date(2024, 7, 2),
	}

	s, ok := BookingSample(b)
	require.True(t, ok)
	assert.InDelta(t, 100, s.Target, 1e-9)
	assert.Equal(t, float64(10), s.Features[4], "lead time from creation")

	t.Run("creation after check-in uses default lead time", func(t *testing.T) {
		late := b
		late.CreatedAt = date(2024, 7, 20)
		s, ok := BookingSample(late)
		require.True(t, ok)
		assert.Equal(t, float64(models.DefaultLeadTimeDays), s.Features[4])
	})

	t.Run("zero nights divides by one", func(t *testing.T) {
		same := b
		same.CheckOut = same.CheckIn
		s, ok := BookingSample(same)
		require.True(t, ok)
		assert.InDelta(t, 300, s.Target, 1e-9)
	})

	t.Run("cancelled bookings are skipped", func(t *testing.T) {
		cancelled := b
		cancelled.Status = domain.BookingCancelled
		_, ok := BookingSample(cancelled)
		assert.False(t, ok)
	})
}

func linearSamples() []Sample {
	var samples []Sample
	for month := 1; month <= 12; month++ {
		for weekday := 1; weekday <= 7; weekday += 2 {
			for guests := 1; guests <= 4; guests++ {
				f := ExtractFeatures(month, weekday, guests, 1+guests%3, 5*month)
				samples = append(samples, Sample{
					Features: f,
					Target:   60 + 20*float64(guests) + 2*float64(month),
				})
			}
		}
	}
	return samples
}

func TestFitLinearModelRecoversRelation(t *testing.T) {
	samples := linearSamples()
	m, err := FitLinearModel(samples)
	require.NoError(t, err)

	for _, s := range samples[:10] {
		assert.InDelta(t, s.Target, m.Predict(s.Features), 0.5)
	}
	assert.Greater(t, EvaluateModel(m, samples), 0.99)
}

func TestFitLinearModelSingleSample(t *testing.T) {
	s := Sample{Features: ExtractFeatures(7, 6, 2, 3, 10), Target: 120}
	m, err := FitLinearModel([]Sample{s})
	require.NoError(t, err)
	assert.InDelta(t, 120, m.Predict(s.Features), 1)
}

func TestFitLinearModelNoSamples(t *testing.T) {
	_, err := FitLinearModel(nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestEvaluateModel(t *testing.T) {
	m := &LinearModel{Intercept: 90}
	samples := []Sample{
		{Target: 100},
		{Target: 0},
	}
	assert.InDelta(t, 0.9, EvaluateModel(m, samples), 1e-9, "zero targets skipped")

	bad := &LinearModel{Intercept: 1000}
	assert.Equal(t, 0.0, EvaluateModel(bad, samples), "floored at zero")

	assert.Equal(t, 0.0, EvaluateModel(m, []Sample{{Target: 0}}))
}

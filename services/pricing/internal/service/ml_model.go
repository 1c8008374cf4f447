// services/pricing/internal/service/ml_model.go
package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/pricing/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

const (
	featureCount = 8

	// ridge is added to the non-intercept diagonal of XᵀX so that small or
	// collinear histories still yield a unique solution.
	ridge = 1e-6

	accuracyWindow = 10
)

var (
	ErrNoSamples     = errors.New("no training samples")
	ErrDegenerateFit = errors.New("regression produced non-finite weights")
)

// Features is the model input, in order: month, weekday, guest count,
// nights, lead time in days, weekend flag, summer flag, holiday flag.
type Features [featureCount]float64

// ExtractFeatures encodes a stay as the model's feature vector
func ExtractFeatures(month, weekday, guests, nights, leadTimeDays int) Features {
	return Features{
		float64(month),
		float64(weekday),
		float64(guests),
		float64(nights),
		float64(leadTimeDays),
		boolFeature(isWeekend(weekday)),
		boolFeature(isSummer(month)),
		boolFeature(isHolidayPeriod(month)),
	}
}

// Sample is one training observation
type Sample struct {
	Features Features
	Target   float64
}

// BookingSample turns a past booking into a training sample whose target is
// the nightly rate. Cancelled bookings are not samples.
func BookingSample(b domain.Booking) (Sample, bool) {
	if b.Status == domain.BookingCancelled {
		return Sample{}, false
	}
	nights := b.Nights()
	lead := models.DefaultLeadTimeDays
	if !b.CreatedAt.IsZero() {
		if d := domain.DaysBetween(b.CreatedAt, b.CheckIn); d >= 0 {
			lead = d
		}
	}
	total, _ := b.TotalPrice.Float64()
	return Sample{
		Features: ExtractFeatures(int(b.CheckIn.Month()), Weekday(b.CheckIn), b.GuestCount, nights, lead),
		Target:   total / float64(maxInt(nights, 1)),
	}, true
}

// LinearModel predicts a nightly rate as Intercept + Weights·features.
type LinearModel struct {
	Weights   [featureCount]float64
	Intercept float64
}

// Predict returns the nightly price for f
func (m *LinearModel) Predict(f Features) float64 {
	y := m.Intercept
	for i, w := range m.Weights {
		y += w * f[i]
	}
	return y
}

// FitLinearModel solves the least squares normal equations
// (XᵀX + λD)w = Xᵀy with an intercept column.
func FitLinearModel(samples []Sample) (*LinearModel, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	const p = featureCount + 1
	x := mat.NewDense(len(samples), p, nil)
	y := mat.NewVecDense(len(samples), nil)
	for i, s := range samples {
		x.Set(i, 0, 1)
		for j, v := range s.Features {
			x.Set(i, j+1, v)
		}
		y.SetVec(i, s.Target)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var trace float64
	for j := 1; j < p; j++ {
		trace += xtx.At(j, j)
	}
	lambda := ridge * math.Max(1, trace/float64(p-1))
	for j := 1; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+lambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var w mat.VecDense
	if err := w.SolveVec(&xtx, &xty); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("failed to solve normal equations: %w", err)
		}
	}

	m := &LinearModel{Intercept: w.AtVec(0)}
	for j := 0; j < featureCount; j++ {
		m.Weights[j] = w.AtVec(j + 1)
	}
	if !finite(m.Intercept) {
		return nil, ErrDegenerateFit
	}
	for _, v := range m.Weights {
		if !finite(v) {
			return nil, ErrDegenerateFit
		}
	}
	return m, nil
}

// EvaluateModel scores the model on the most recent training samples as
// max(0, 1 - MAPE). It measures in-sample fit only; samples with a zero
// target are skipped.
func EvaluateModel(m *LinearModel, samples []Sample) float64 {
	start := len(samples) - accuracyWindow
	if start < 0 {
		start = 0
	}

	var sum float64
	var n int
	for _, s := range samples[start:] {
		if s.Target == 0 {
			continue
		}
		sum += math.Abs((s.Target - m.Predict(s.Features)) / s.Target)
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Max(0, 1-sum/float64(n))
}

// Weekday numbers days from 1 = Sunday to 7 = Saturday.
func Weekday(t time.Time) int {
	return int(t.Weekday()) + 1
}

func isWeekend(weekday int) bool     { return weekday >= 6 }
func isSummer(month int) bool        { return month >= 6 && month <= 8 }
func isHolidayPeriod(month int) bool { return month == 4 || month == 8 || month == 12 }

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

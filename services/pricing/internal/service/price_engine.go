// services/pricing/internal/service/price_engine.go
package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/pricing/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/clock"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

const (
	fallbackConfidence = 0.6
	maxConfidence      = 0.95
	reasonSeparator    = " • "
	fallbackReasoning  = "No trained model yet: base rate of 50 plus 15 per guest, 10% off stays of 7 nights or more"
)

// PriceBand bounds model output. A zero bound is not applied; predictions
// that are not positive never reach the band.
type PriceBand struct {
	Min float64
	Max float64
}

func (b PriceBand) clamp(price float64) (float64, bool) {
	if b.Min > 0 && price < b.Min {
		return b.Min, true
	}
	if b.Max > 0 && price > b.Max {
		return b.Max, true
	}
	return price, false
}

// PriceEngine holds at most one trained model. Fit swaps in a new model only
// when training succeeds, so a failed retrain leaves the previous one serving.
type PriceEngine struct {
	mu     sync.RWMutex
	model  *LinearModel
	status models.ModelStatus

	band   PriceBand
	clock  clock.Clock
	logger *zap.Logger
}

// NewPriceEngine creates an untrained engine that answers with fallback prices
func NewPriceEngine(band PriceBand, clk clock.Clock, logger *zap.Logger) *PriceEngine {
	return &PriceEngine{
		status: models.ModelStatus{State: models.ModelUntrained},
		band:   band,
		clock:  clk,
		logger: logger,
	}
}

// Status returns the model state, sample count and version
func (e *PriceEngine) Status() models.ModelStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Fit trains on the given history. It never returns an error: failures are
// logged and recorded on the status while the previous model stays active.
func (e *PriceEngine) Fit(ctx context.Context, bookings []domain.Booking) models.ModelStatus {
	samples := make([]Sample, 0, len(bookings))
	for _, b := range bookings {
		if s, ok := BookingSample(b); ok {
			samples = append(samples, s)
		}
	}

	now := e.clock.Now()
	model, err := FitLinearModel(samples)
	if err == nil {
		err = ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.LastAttemptAt = &now

	if err != nil {
		e.status.LastError = err.Error()
		fitTotal.WithLabelValues("failed").Inc()
		e.logger.Warn("price model fit failed, keeping previous state",
			zap.Error(err),
			zap.Int("samples", len(samples)),
			zap.String("state", string(e.status.State)))
		return e.status
	}

	accuracy := EvaluateModel(model, samples)
	e.model = model
	e.status = models.ModelStatus{
		State:         models.ModelTrained,
		Accuracy:      round2(accuracy),
		SampleCount:   len(samples),
		Version:       e.status.Version + 1,
		TrainedAt:     &now,
		LastAttemptAt: &now,
	}
	fitTotal.WithLabelValues("trained").Inc()
	modelAccuracy.Set(accuracy)

	e.logger.Info("price model trained",
		zap.Int("samples", len(samples)),
		zap.Float64("accuracy", accuracy),
		zap.Int("version", e.status.Version))
	return e.status
}

// Suggest prices one stay. It only fails on an invalid request. A missing
// model or a prediction that is not a positive number falls back to the
// rule based price.
func (e *PriceEngine) Suggest(req models.SuggestionRequest) (models.PriceSuggestion, error) {
	if err := req.Validate(); err != nil {
		return models.PriceSuggestion{}, err
	}

	e.mu.RLock()
	model, version := e.model, e.status.Version
	e.mu.RUnlock()

	if model == nil {
		suggestionTotal.WithLabelValues(string(models.SourceFallback)).Inc()
		return FallbackSuggestion(req), nil
	}

	features := ExtractFeatures(req.Month, req.Weekday, req.GuestCount, req.Nights, req.LeadTime())
	price := model.Predict(features)
	if !finite(price) || price <= 0 {
		e.logger.Warn("unusable prediction, using fallback",
			zap.Float64("prediction", price),
			zap.Int("model_version", version))
		suggestionTotal.WithLabelValues(string(models.SourceFallback)).Inc()
		return FallbackSuggestion(req), nil
	}

	price, clamped := e.band.clamp(price)
	low, high := price*0.85, price*1.15
	if low > high {
		low, high = high, low
	}
	suggestionTotal.WithLabelValues(string(models.SourceModel)).Inc()
	return models.PriceSuggestion{
		Price:        round2(price),
		Confidence:   round2(confidence(req)),
		MinPrice:     round2(low),
		MaxPrice:     round2(high),
		DemandLevel:  Demand(req.Month, req.Weekday),
		Reasoning:    Reasoning(req.Month, req.Weekday, req.GuestCount),
		GuestCount:   req.GuestCount,
		Source:       models.SourceModel,
		Clamped:      clamped,
		ModelVersion: version,
	}, nil
}

// GenerateCalendar prices every free day in [today, today+daysAhead) for one
// to four guests. Occupied days get no suggestions. Each day scans all
// bookings, which is fine for a single property's history.
func (e *PriceEngine) GenerateCalendar(daysAhead int, bookings []domain.Booking) ([]models.CalendarDay, error) {
	if daysAhead < 1 {
		return nil, domain.Invalid("days ahead must be positive, got %d", daysAhead)
	}

	today := e.today()
	days := make([]models.CalendarDay, 0, daysAhead)
	for offset := 0; offset < daysAhead; offset++ {
		day := today.AddDate(0, 0, offset)
		cd := models.CalendarDay{Date: day, Suggestions: []models.PriceSuggestion{}}

		for _, b := range bookings {
			if b.Occupies(day) {
				cd.Occupied = true
				break
			}
		}

		if !cd.Occupied {
			lead := offset
			for guests := 1; guests <= 4; guests++ {
				s, err := e.Suggest(models.SuggestionRequest{
					Month:        int(day.Month()),
					Weekday:      Weekday(day),
					GuestCount:   guests,
					Nights:       1,
					LeadTimeDays: &lead,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to price %s: %w", day.Format("2006-01-02"), err)
				}
				cd.Suggestions = append(cd.Suggestions, s)
			}
		}
		days = append(days, cd)
	}
	return days, nil
}

// FallbackSuggestion is the fixed rule used while no model is trained.
func FallbackSuggestion(req models.SuggestionRequest) models.PriceSuggestion {
	price := 50 + 15*float64(req.GuestCount)
	if req.Nights >= 7 {
		price *= 0.9
	}
	return models.PriceSuggestion{
		Price:       round2(price),
		Confidence:  fallbackConfidence,
		MinPrice:    round2(price * 0.8),
		MaxPrice:    round2(price * 1.2),
		DemandLevel: models.DemandMedium,
		Reasoning:   fallbackReasoning,
		GuestCount:  req.GuestCount,
		Source:      models.SourceFallback,
	}
}

func confidence(req models.SuggestionRequest) float64 {
	c := 0.7
	if req.GuestCount >= 2 && req.GuestCount <= 4 {
		c += 0.1
	}
	if req.Weekday >= 2 && req.Weekday <= 5 {
		c += 0.1
	}
	if req.Month >= 4 && req.Month <= 10 {
		c += 0.1
	}
	return math.Min(c, maxConfidence)
}

// Demand scores summer, weekend and holiday period one point each.
func Demand(month, weekday int) models.DemandLevel {
	score := 0
	if isSummer(month) {
		score++
	}
	if isWeekend(weekday) {
		score++
	}
	if isHolidayPeriod(month) {
		score++
	}
	switch score {
	case 0:
		return models.DemandLow
	case 1:
		return models.DemandMedium
	case 2:
		return models.DemandHigh
	default:
		return models.DemandVeryHigh
	}
}

// Reasoning explains the season, weekday and group size behind a price
func Reasoning(month, weekday, guests int) string {
	return strings.Join([]string{
		seasonClause(month),
		weekdayClause(weekday),
		guestClause(guests),
	}, reasonSeparator)
}

func seasonClause(month int) string {
	switch month {
	case 12, 1, 2:
		return "Winter low season"
	case 3, 4, 5:
		return "Spring shoulder season"
	case 6, 7, 8:
		return "Summer peak season"
	default:
		return "Autumn shoulder season"
	}
}

func weekdayClause(weekday int) string {
	if isWeekend(weekday) {
		return "Weekend premium"
	}
	return "Weekday rate"
}

func guestClause(guests int) string {
	switch {
	case guests <= 1:
		return "Single guest"
	case guests == 2:
		return "Couple occupancy"
	case guests <= 4:
		return "Small group"
	case guests <= 6:
		return "Large group"
	default:
		return "Extra large group, check capacity"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// today is the current calendar date according to the engine's clock.
func (e *PriceEngine) today() time.Time {
	return domain.CivilDate(e.clock.Now())
}

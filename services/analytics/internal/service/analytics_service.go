// services/analytics/internal/service/analytics_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/analytics/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/clock"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

var computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "bnb_analytics_compute_duration_seconds",
	Help:    "Time spent loading data and computing business metrics",
	Buckets: prometheus.DefBuckets,
}, []string{"period"})

// AnalyticsService computes business metrics from stored bookings and expenses
type AnalyticsService struct {
	store      store.Store
	clock      clock.Clock
	logger     *zap.Logger
	propertyID string
}

// NewAnalyticsService creates an analytics service.
// A non-empty propertyID limits every report to that property.
func NewAnalyticsService(st store.Store, clk clock.Clock, logger *zap.Logger, propertyID string) *AnalyticsService {
	return &AnalyticsService{
		store:      st,
		clock:      clk,
		logger:     logger,
		propertyID: propertyID,
	}
}

// Metrics resolves the period against the clock and computes the metrics
// over one consistent snapshot of bookings and expenses.
func (s *AnalyticsService) Metrics(ctx context.Context, period models.Period) (*models.BusinessMetrics, error) {
	start := time.Now()
	now := s.clock.Now()

	r, err := period.Resolve(now)
	if err != nil {
		return nil, err
	}

	snap, err := store.Load(ctx, s.store, store.ForProperty(s.propertyID))
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics data: %w", err)
	}

	kind := period.Kind
	if kind == "" {
		kind = models.PeriodCurrentMonth
	}
	m := ComputeMetrics(kind, r, snap.Bookings, snap.Expenses, now)
	computeDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	s.logger.Debug("metrics computed",
		zap.String("period", string(kind)),
		zap.Time("start", r.Start),
		zap.Time("end", r.End),
		zap.Int("bookings", m.BookingCount),
		zap.String("revenue", m.Revenue.String()))
	return &m, nil
}

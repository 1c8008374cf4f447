// services/pricing/internal/service/pricing_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/pricing/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/clock"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

const DefaultCalendarMaxDays = 365

// PricingService serves price suggestions backed by the booking history
type PricingService struct {
	store      store.Store
	engine     *PriceEngine
	cache      *SuggestionCache
	calendars  singleflight.Group
	clock      clock.Clock
	logger     *zap.Logger
	propertyID string
	maxDays    int
}

// Option configures a PricingService
type Option func(*PricingService)

// WithPropertyID limits training and calendar occupancy to one property.
func WithPropertyID(id string) Option {
	return func(s *PricingService) { s.propertyID = id }
}

// WithCalendarMaxDays caps the number of days a calendar request may span
func WithCalendarMaxDays(n int) Option {
	return func(s *PricingService) {
		if n > 0 {
			s.maxDays = n
		}
	}
}

// NewPricingService creates a pricing service
func NewPricingService(st store.Store, engine *PriceEngine, cache *SuggestionCache, clk clock.Clock, logger *zap.Logger, opts ...Option) *PricingService {
	s := &PricingService{
		store:   st,
		engine:  engine,
		cache:   cache,
		clock:   clk,
		logger:  logger,
		maxDays: DefaultCalendarMaxDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Train refits the model on the stored booking history. Only a store failure
// is returned; a failed fit shows up in the returned status.
func (s *PricingService) Train(ctx context.Context) (models.ModelStatus, error) {
	bookings, err := s.bookings(ctx)
	if err != nil {
		return s.engine.Status(), err
	}

	before := s.engine.Status().Version
	status := s.engine.Fit(ctx, bookings)
	if status.Version != before {
		s.cache.Invalidate(ctx)
	}
	return status, nil
}

// Suggest returns a price suggestion, served from cache when the current model version
// already answered the same request.
func (s *PricingService) Suggest(ctx context.Context, req models.SuggestionRequest) (models.PriceSuggestion, error) {
	if err := req.Validate(); err != nil {
		return models.PriceSuggestion{}, err
	}

	key := SuggestionKey(s.engine.Status().Version, req)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	suggestion, err := s.engine.Suggest(req)
	if err != nil {
		return models.PriceSuggestion{}, err
	}
	s.cache.Set(ctx, key, suggestion)
	return suggestion, nil
}

// Calendar prices the next daysAhead days. Concurrent identical requests
// share one computation, which keeps running when the caller that started
// it goes away; each caller still returns as soon as its own ctx is done.
func (s *PricingService) Calendar(ctx context.Context, daysAhead int) ([]models.CalendarDay, error) {
	if daysAhead < 1 || daysAhead > s.maxDays {
		return nil, domain.Invalid("days must be between 1 and %d, got %d", s.maxDays, daysAhead)
	}

	key := fmt.Sprintf("%s:%d:v%d", s.engine.today().Format("2006-01-02"), daysAhead, s.engine.Status().Version)
	ch := s.calendars.DoChan(key, func() (interface{}, error) {
		bookings, err := s.bookings(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return s.engine.GenerateCalendar(daysAhead, bookings)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("calendar request shared", zap.String("key", key))
		}
		return res.Val.([]models.CalendarDay), nil
	}
}

// Status reports the model state
func (s *PricingService) Status() models.ModelStatus {
	return s.engine.Status()
}

func (s *PricingService) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}

// RunRetrainer trains once immediately and then every interval until ctx ends.
func (s *PricingService) RunRetrainer(ctx context.Context, interval time.Duration) {
	s.retrain(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("retrainer stopped")
			return
		case <-ticker.C:
			s.retrain(ctx)
		}
	}
}

func (s *PricingService) retrain(ctx context.Context) {
	if _, err := s.Train(ctx); err != nil {
		s.logger.Error("scheduled retrain failed", zap.Error(err))
	}
}

func (s *PricingService) bookings(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.store.Bookings().List(ctx, store.ForProperty(s.propertyID))
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	return bookings, nil
}

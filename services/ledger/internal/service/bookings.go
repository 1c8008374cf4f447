// services/ledger/internal/service/bookings.go
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/reminder"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

// SaveBooking creates or replaces a booking and reschedules its reminders.
// Ledger entries are not touched; GenerateFromBookings picks up new revenue.
func (s *LedgerService) SaveBooking(ctx context.Context, booking domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if booking.ID == "" {
		booking.ID = s.newID()
	}
	if err := s.claim("booking", &booking.PropertyID); err != nil {
		return nil, err
	}
	if err := booking.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		existing, err := tx.Bookings().Get(ctx, booking.ID)
		if err == nil {
			if err := s.visible("booking", booking.ID, existing.PropertyID); err != nil {
				return err
			}
		}
		switch {
		case err == nil:
			booking.CreatedAt = existing.CreatedAt
		case errors.Is(err, domain.ErrNotFound):
			if booking.CreatedAt.IsZero() {
				booking.CreatedAt = now
			}
		default:
			return err
		}
		booking.UpdatedAt = now
		return tx.Bookings().Upsert(ctx, booking)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	if err := reminder.Sync(ctx, s.reminders, booking, now); err != nil {
		s.logger.Warn("failed to schedule booking reminders", zap.String("booking_id", booking.ID), zap.Error(err))
	}
	s.refreshSummaries(ctx)
	s.logger.Info("booking saved",
		zap.String("booking_id", booking.ID),
		zap.String("status", string(booking.Status)),
		zap.Int("nights", booking.Nights()))
	return &booking, nil
}

// DeleteBooking removes the booking along with the revenue entries derived
// from it, then cancels its reminders.
func (s *LedgerService) DeleteBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		booking, err := tx.Bookings().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.visible("booking", id, booking.PropertyID); err != nil {
			return err
		}
		if err := tx.Bookings().Delete(ctx, id); err != nil {
			return err
		}
		entries, err := tx.Entries().List(ctx, store.All)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.LinkedBookingID != id {
				continue
			}
			if err := tx.Entries().Delete(ctx, e.ID); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if err := s.reminders.Cancel(ctx, id); err != nil {
		s.logger.Warn("failed to cancel booking reminders", zap.String("booking_id", id), zap.Error(err))
	}
	s.refreshSummaries(ctx)
	s.logger.Info("booking deleted", zap.String("booking_id", id), zap.Int("entries_removed", removed))
	return nil
}

// GetBooking returns the booking with the given id.
func (s *LedgerService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.store.Bookings().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visible("booking", id, b.PropertyID); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBookings returns bookings matching q within the service's property scope
func (s *LedgerService) ListBookings(ctx context.Context, q store.Query) ([]domain.Booking, error) {
	q.PropertyID = s.scope().PropertyID
	return s.store.Bookings().List(ctx, q)
}

// SaveExpense validates and stores an expense, assigning an ID when missing
func (s *LedgerService) SaveExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.ID == "" {
		expense.ID = s.newID()
	}
	if err := s.claim("expense", &expense.PropertyID); err != nil {
		return nil, err
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		existing, err := tx.Expenses().Get(ctx, expense.ID)
		if err == nil {
			if err := s.visible("expense", expense.ID, existing.PropertyID); err != nil {
				return err
			}
		}
		switch {
		case err == nil:
			expense.CreatedAt = existing.CreatedAt
		case errors.Is(err, domain.ErrNotFound):
			expense.CreatedAt = now
		default:
			return err
		}
		expense.UpdatedAt = now
		return tx.Expenses().Upsert(ctx, expense)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.logger.Info("expense saved", zap.String("expense_id", expense.ID), zap.String("category", string(expense.Category)))
	return &expense, nil
}

// DeleteExpense removes an expense
func (s *LedgerService) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		expense, err := tx.Expenses().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.visible("expense", id, expense.PropertyID); err != nil {
			return err
		}
		return tx.Expenses().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	s.logger.Info("expense deleted", zap.String("expense_id", id))
	return nil
}

// ListExpenses returns expenses matching q
func (s *LedgerService) ListExpenses(ctx context.Context, q store.Query) ([]domain.Expense, error) {
	q.PropertyID = s.scope().PropertyID
	return s.store.Expenses().List(ctx, q)
}

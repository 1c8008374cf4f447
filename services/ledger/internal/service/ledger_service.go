// services/ledger/internal/service/ledger_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/ledger/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/services/ledger/internal/repository"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/clock"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/reminder"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

// Option configures a LedgerService
type Option func(*LedgerService)

// WithPropertyID scopes the service to one property. Entities without a
// property id are assigned to it; entities of other properties are rejected
// on write and reported as not found on read, update and delete.
func WithPropertyID(id string) Option {
	return func(s *LedgerService) { s.propertyID = id }
}

// WithIDGenerator overrides the generator used for new record IDs
func WithIDGenerator(fn func() string) Option {
	return func(s *LedgerService) { s.newID = fn }
}

// WithReminderSink sets where booking reminders are scheduled
func WithReminderSink(sink reminder.Sink) Option {
	return func(s *LedgerService) { s.reminders = sink }
}

// LedgerService keeps ledger entries in step with bookings and wire
// transfers. Every mutation runs under mu and refreshes the cached monthly
// summaries before it returns.
type LedgerService struct {
	store      store.Store
	reports    repository.ReportRepository
	reminders  reminder.Sink
	clock      clock.Clock
	logger     *zap.Logger
	propertyID string
	newID      func() string

	mu sync.Mutex

	summaryMu    sync.RWMutex
	summaries    []models.MonthlySummary
	summaryValid bool
}

// NewLedgerService creates a ledger service over the given store
func NewLedgerService(st store.Store, reports repository.ReportRepository, clk clock.Clock, logger *zap.Logger, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:   st,
		reports: reports,
		clock:   clk,
		logger:  logger,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reminders == nil {
		s.reminders = reminder.NewLogSink(logger)
	}
	return s
}

func (s *LedgerService) scope() store.Query {
	return store.ForProperty(s.propertyID)
}

func (s *LedgerService) claim(kind string, propertyID *string) error {
	if s.propertyID == "" {
		return nil
	}
	if *propertyID == "" {
		*propertyID = s.propertyID
		return nil
	}
	if *propertyID != s.propertyID {
		return domain.Invalid("%s belongs to property %q, service manages %q", kind, *propertyID, s.propertyID)
	}
	return nil
}

// visible reports a stored record of another property as missing.
func (s *LedgerService) visible(kind, id, propertyID string) error {
	if s.propertyID != "" && propertyID != s.propertyID {
		return domain.NotFound(kind, id)
	}
	return nil
}

// GenerateFromBookings creates the missing revenue entry of every confirmed
// or completed booking. Entries are persisted one at a time, so a failure
// leaves the ones already written in place; running it again resumes.
func (s *LedgerService) GenerateFromBookings(ctx context.Context) (*models.GenerateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.refreshSummaries(ctx)

	bookings, err := s.store.Bookings().List(ctx, s.scope())
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	entries, err := s.store.Entries().List(ctx, store.All)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}

	result := &models.GenerateResult{Created: []domain.LedgerEntry{}}
	for _, entry := range PlanBookingEntries(bookings, entries, s.clock.Now(), s.newID) {
		if err := s.store.Entries().Upsert(ctx, entry); err != nil {
			s.logger.Error("failed to persist booking entry",
				zap.String("booking_id", entry.LinkedBookingID),
				zap.Int("created", len(result.Created)),
				zap.Error(err))
			return result, fmt.Errorf("failed to persist entry for booking %s: %w", entry.LinkedBookingID, err)
		}
		result.Created = append(result.Created, entry)
	}

	s.logger.Info("ledger entries generated from bookings",
		zap.Int("bookings", len(bookings)),
		zap.Int("created", len(result.Created)))
	return result, nil
}

// PlanBookingEntries returns the entries that GenerateFromBookings would
// create: one per revenue booking that no existing entry links to.
func PlanBookingEntries(bookings []domain.Booking, existing []domain.LedgerEntry, now time.Time, newID func() string) []domain.LedgerEntry {
	linked := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		if e.LinkedBookingID != "" {
			linked[e.LinkedBookingID] = struct{}{}
		}
	}

	var planned []domain.LedgerEntry
	for _, b := range bookings {
		if !b.EarnsRevenue() {
			continue
		}
		if _, ok := linked[b.ID]; ok {
			continue
		}
		linked[b.ID] = struct{}{}
		planned = append(planned, domain.LedgerEntry{
			ID:              newID(),
			Description:     "Booking: " + b.GuestName,
			Amount:          b.TotalPrice,
			Date:            b.CheckIn,
			Direction:       domain.DirectionIncome,
			Category:        domain.CategoryBookingRevenue,
			PaymentMethod:   domain.PaymentOnlinePlatform,
			LinkedBookingID: b.ID,
			PropertyID:      b.PropertyID,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return planned
}

// UpsertEntry creates the entry or overwrites the stored one with the same
// id, keeping its creation time and transfer link.
func (s *LedgerService) UpsertEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = s.newID()
	}
	if err := s.claim("ledger entry", &entry.PropertyID); err != nil {
		return nil, err
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		existing, err := tx.Entries().Get(ctx, entry.ID)
		if err == nil {
			if err := s.visible("ledger entry", entry.ID, existing.PropertyID); err != nil {
				return err
			}
		}
		switch {
		case err == nil:
			entry.CreatedAt = existing.CreatedAt
			entry.LinkedTransferID = existing.LinkedTransferID
		case errors.Is(err, domain.ErrNotFound):
			entry.CreatedAt = now
			entry.LinkedTransferID = ""
		default:
			return err
		}
		entry.UpdatedAt = now
		return tx.Entries().Upsert(ctx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert ledger entry: %w", err)
	}

	s.refreshSummaries(ctx)
	s.logger.Info("ledger entry saved", zap.String("entry_id", entry.ID), zap.String("category", string(entry.Category)))
	return &entry, nil
}

// AddTransfer persists a new transfer together with its ledger entry and
// links them both ways in one transaction.
func (s *LedgerService) AddTransfer(ctx context.Context, transfer domain.WireTransfer) (*models.TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if transfer.ID == "" {
		transfer.ID = s.newID()
	}
	if err := s.claim("wire transfer", &transfer.PropertyID); err != nil {
		return nil, err
	}
	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	transfer.CreatedAt = now
	transfer.UpdatedAt = now
	transfer.LinkedLedgerEntryID = ""

	var entry domain.LedgerEntry
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		if _, err := tx.Transfers().Get(ctx, transfer.ID); err == nil {
			return domain.Invalid("wire transfer %q already exists", transfer.ID)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := tx.Transfers().Upsert(ctx, transfer); err != nil {
			return err
		}

		entry = transfer.LedgerEntry(s.newID())
		entry.CreatedAt = now
		entry.UpdatedAt = now
		if err := entry.Validate(); err != nil {
			return err
		}
		if err := tx.Entries().Upsert(ctx, entry); err != nil {
			return err
		}

		transfer.LinkedLedgerEntryID = entry.ID
		return tx.Transfers().Upsert(ctx, transfer)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add wire transfer: %w", err)
	}

	s.refreshSummaries(ctx)
	s.logger.Info("wire transfer added",
		zap.String("transfer_id", transfer.ID),
		zap.String("entry_id", entry.ID),
		zap.String("direction", string(transfer.Direction)),
		zap.String("net_amount", transfer.NetAmount().StringFixed(2)))
	return &models.TransferResult{Transfer: transfer, Entry: entry}, nil
}

// UpdateTransfer re-persists the transfer and carries its net amount,
// description, date and notes over to the linked entry. A link pointing at
// a missing entry fails the whole update.
func (s *LedgerService) UpdateTransfer(ctx context.Context, transfer domain.WireTransfer) (*models.TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if transfer.ID == "" {
		return nil, domain.Invalid("wire transfer id is required")
	}
	if err := s.claim("wire transfer", &transfer.PropertyID); err != nil {
		return nil, err
	}
	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var entry domain.LedgerEntry
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		existing, err := tx.Transfers().Get(ctx, transfer.ID)
		if err != nil {
			return err
		}
		if err := s.visible("wire transfer", transfer.ID, existing.PropertyID); err != nil {
			return err
		}
		transfer.CreatedAt = existing.CreatedAt
		transfer.UpdatedAt = now
		transfer.LinkedLedgerEntryID = existing.LinkedLedgerEntryID
		if err := tx.Transfers().Upsert(ctx, transfer); err != nil {
			return err
		}
		if transfer.LinkedLedgerEntryID == "" {
			return nil
		}

		entry, err = tx.Entries().Get(ctx, transfer.LinkedLedgerEntryID)
		if err != nil {
			return fmt.Errorf("linked entry of wire transfer %s: %w", transfer.ID, err)
		}
		transfer.ApplyTo(&entry)
		entry.UpdatedAt = now
		return tx.Entries().Upsert(ctx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update wire transfer: %w", err)
	}

	s.refreshSummaries(ctx)
	s.logger.Info("wire transfer updated", zap.String("transfer_id", transfer.ID))
	return &models.TransferResult{Transfer: transfer, Entry: entry}, nil
}

// DeleteEntry removes one entry. A transfer that pointed at it loses its link.
func (s *LedgerService) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		entry, err := tx.Entries().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.visible("ledger entry", id, entry.PropertyID); err != nil {
			return err
		}
		if err := tx.Entries().Delete(ctx, id); err != nil {
			return err
		}
		if entry.LinkedTransferID == "" {
			return nil
		}

		transfer, err := tx.Transfers().Get(ctx, entry.LinkedTransferID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if transfer.LinkedLedgerEntryID != id {
			return nil
		}
		transfer.LinkedLedgerEntryID = ""
		transfer.UpdatedAt = s.clock.Now()
		return tx.Transfers().Upsert(ctx, transfer)
	})
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}

	s.refreshSummaries(ctx)
	s.logger.Info("ledger entry deleted", zap.String("entry_id", id))
	return nil
}

// DeleteTransfer removes the transfer and its linked entry.
func (s *LedgerService) DeleteTransfer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		transfer, err := tx.Transfers().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.visible("wire transfer", id, transfer.PropertyID); err != nil {
			return err
		}
		if transfer.LinkedLedgerEntryID != "" {
			err := tx.Entries().Delete(ctx, transfer.LinkedLedgerEntryID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		return tx.Transfers().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete wire transfer: %w", err)
	}

	s.refreshSummaries(ctx)
	s.logger.Info("wire transfer deleted", zap.String("transfer_id", id))
	return nil
}

// GetEntry returns the entry with the given id.
func (s *LedgerService) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	e, err := s.store.Entries().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visible("ledger entry", id, e.PropertyID); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetTransfer returns the wire transfer with the given id.
func (s *LedgerService) GetTransfer(ctx context.Context, id string) (*domain.WireTransfer, error) {
	t, err := s.store.Transfers().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visible("wire transfer", id, t.PropertyID); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListEntries returns ledger entries matching q, ordered by date
func (s *LedgerService) ListEntries(ctx context.Context, q store.Query) ([]domain.LedgerEntry, error) {
	q.PropertyID = s.scope().PropertyID
	return s.store.Entries().List(ctx, q)
}

// ListTransfers returns wire transfers matching q
func (s *LedgerService) ListTransfers(ctx context.Context, q store.Query) ([]domain.WireTransfer, error) {
	q.PropertyID = s.scope().PropertyID
	return s.store.Transfers().List(ctx, q)
}

// MonthlySummaries returns the cached rollups, recomputing them if the last
// refresh failed. The recompute holds mu so it cannot overwrite the result
// of a mutation that finished in the meantime.
func (s *LedgerService) MonthlySummaries(ctx context.Context) ([]models.MonthlySummary, error) {
	if out, ok := s.cachedSummaries(); ok {
		return out, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if out, ok := s.cachedSummaries(); ok {
		return out, nil
	}

	summaries, err := s.recompute(ctx)
	if err != nil {
		return nil, err
	}
	return append([]models.MonthlySummary(nil), summaries...), nil
}

func (s *LedgerService) cachedSummaries() ([]models.MonthlySummary, bool) {
	s.summaryMu.RLock()
	defer s.summaryMu.RUnlock()
	if !s.summaryValid {
		return nil, false
	}
	return append([]models.MonthlySummary(nil), s.summaries...), true
}

// refreshSummaries must be called with mu held.
func (s *LedgerService) refreshSummaries(ctx context.Context) {
	if _, err := s.recompute(ctx); err != nil {
		s.logger.Error("failed to recompute monthly summaries", zap.Error(err))
		s.summaryMu.Lock()
		s.summaryValid = false
		s.summaryMu.Unlock()
	}
}

func (s *LedgerService) recompute(ctx context.Context) ([]models.MonthlySummary, error) {
	snap, err := store.Load(ctx, s.store, s.scope())
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger snapshot: %w", err)
	}
	summaries := ComputeMonthlySummaries(snap.Entries, snap.Transfers, snap.Bookings)

	s.summaryMu.Lock()
	s.summaries = summaries
	s.summaryValid = true
	s.summaryMu.Unlock()
	return summaries, nil
}

// services/ledger/internal/service/reconciliation.go
package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/ledger/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/store"
)

// Reconcile checks the stored ledger for broken links and missing revenue
// and saves the report. A failed save is logged, not returned.
func (s *LedgerService) Reconcile(ctx context.Context) (*models.ReconciliationReport, error) {
	s.logger.Info("starting reconciliation", zap.String("property_id", s.propertyID))

	snap, err := store.Load(ctx, s.store, s.scope())
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger snapshot: %w", err)
	}

	report := &models.ReconciliationReport{
		ID:            s.newID(),
		PropertyID:    s.propertyID,
		TotalIncome:   decimal.Zero,
		TotalExpense:  decimal.Zero,
		Discrepancies: FindDiscrepancies(snap),
		CreatedAt:     s.clock.Now(),
	}
	for _, e := range snap.Entries {
		if e.Direction == domain.DirectionIncome {
			report.TotalIncome = report.TotalIncome.Add(e.Amount)
		} else {
			report.TotalExpense = report.TotalExpense.Add(e.Amount)
		}
	}
	report.IsClean = len(report.Discrepancies) == 0

	if s.reports != nil {
		if err := s.reports.Save(ctx, report.Record()); err != nil {
			s.logger.Error("failed to save reconciliation report", zap.Error(err))
		}
	}

	if report.IsClean {
		s.logger.Info("reconciliation complete - CLEAN",
			zap.Int("entries", len(snap.Entries)),
			zap.String("total_income", report.TotalIncome.StringFixed(2)),
			zap.String("total_expense", report.TotalExpense.StringFixed(2)))
	} else {
		s.logger.Warn("reconciliation complete - DISCREPANCIES",
			zap.Int("discrepancies", len(report.Discrepancies)),
			zap.Strings("details", report.Lines()))
	}
	return report, nil
}

// ReconciliationHistory returns persisted reconciliation reports, newest first
func (s *LedgerService) ReconciliationHistory(ctx context.Context, limit int) ([]models.ReportRecord, error) {
	if s.reports == nil {
		return []models.ReportRecord{}, nil
	}
	return s.reports.History(ctx, s.propertyID, limit)
}

// FindDiscrepancies lists every place where bookings, entries and transfers
// disagree with each other.
func FindDiscrepancies(snap *store.Snapshot) []models.Discrepancy {
	discrepancies := []models.Discrepancy{}

	bookings := make(map[string]domain.Booking, len(snap.Bookings))
	for _, b := range snap.Bookings {
		bookings[b.ID] = b
	}
	entries := make(map[string]domain.LedgerEntry, len(snap.Entries))
	perBooking := make(map[string]int)
	for _, e := range snap.Entries {
		entries[e.ID] = e
		if e.LinkedBookingID != "" {
			perBooking[e.LinkedBookingID]++
		}
	}
	transfers := make(map[string]domain.WireTransfer, len(snap.Transfers))
	for _, t := range snap.Transfers {
		transfers[t.ID] = t
	}

	for _, b := range snap.Bookings {
		switch n := perBooking[b.ID]; {
		case n == 0 && b.EarnsRevenue():
			discrepancies = append(discrepancies, models.Discrepancy{
				Type:        models.DiscrepancyMissingEntry,
				EntityID:    b.ID,
				Description: fmt.Sprintf("%s booking of %s has no revenue entry", b.Status, b.GuestName),
				Amount:      b.TotalPrice,
			})
		case n > 1:
			discrepancies = append(discrepancies, models.Discrepancy{
				Type:        models.DiscrepancyDuplicateEntry,
				EntityID:    b.ID,
				Description: fmt.Sprintf("booking has %d revenue entries", n),
				Amount:      b.TotalPrice,
			})
		}
	}

	for _, e := range snap.Entries {
		if e.LinkedBookingID != "" {
			if _, ok := bookings[e.LinkedBookingID]; !ok {
				discrepancies = append(discrepancies, models.Discrepancy{
					Type:        models.DiscrepancyOrphanEntry,
					EntityID:    e.ID,
					Description: fmt.Sprintf("entry links to missing booking %s", e.LinkedBookingID),
					Amount:      e.Amount,
				})
			}
		}
		if e.Category.Direction() != e.Direction {
			discrepancies = append(discrepancies, models.Discrepancy{
				Type:        models.DiscrepancyCategoryMismatch,
				EntityID:    e.ID,
				Description: fmt.Sprintf("category %s with direction %s", e.Category, e.Direction),
				Amount:      e.Amount,
			})
		}
		if e.LinkedTransferID != "" {
			t, ok := transfers[e.LinkedTransferID]
			if !ok || t.LinkedLedgerEntryID != e.ID {
				discrepancies = append(discrepancies, models.Discrepancy{
					Type:        models.DiscrepancyBrokenBackLink,
					EntityID:    e.ID,
					Description: fmt.Sprintf("entry points at transfer %s which does not point back", e.LinkedTransferID),
					Amount:      e.Amount,
				})
			}
		}
	}

	for _, t := range snap.Transfers {
		if t.LinkedLedgerEntryID == "" {
			continue
		}
		e, ok := entries[t.LinkedLedgerEntryID]
		if !ok {
			discrepancies = append(discrepancies, models.Discrepancy{
				Type:        models.DiscrepancyDanglingTransfer,
				EntityID:    t.ID,
				Description: fmt.Sprintf("transfer links to missing entry %s", t.LinkedLedgerEntryID),
				Amount:      t.NetAmount(),
			})
			continue
		}
		if want := t.NetAmount().Abs(); !e.Amount.Equal(want) {
			discrepancies = append(discrepancies, models.Discrepancy{
				Type:        models.DiscrepancyAmountMismatch,
				EntityID:    t.ID,
				Description: fmt.Sprintf("entry amount %s, transfer net %s", e.Amount.StringFixed(2), want.StringFixed(2)),
				Amount:      e.Amount.Sub(want),
			})
		}
	}

	return discrepancies
}

// services/ledger/internal/service/summary.go
package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/ledger/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

// ComputeMonthlySummaries rolls the three collections up by calendar month.
// Each collection is grouped on its own date field; a month appears when
// any of them has a record in it. Newest month first.
func ComputeMonthlySummaries(entries []domain.LedgerEntry, transfers []domain.WireTransfer, bookings []domain.Booking) []models.MonthlySummary {
	buckets := make(map[domain.MonthKey]*models.MonthlySummary)
	bucket := func(k domain.MonthKey) *models.MonthlySummary {
		if s, ok := buckets[k]; ok {
			return s
		}
		s := &models.MonthlySummary{
			Year:              k.Year,
			Month:             int(k.Month),
			BookingIncome:     decimal.Zero,
			OtherIncome:       decimal.Zero,
			TotalIncome:       decimal.Zero,
			TotalExpense:      decimal.Zero,
			NetBalance:        decimal.Zero,
			TransfersReceived: decimal.Zero,
			TransfersSent:     decimal.Zero,
		}
		buckets[k] = s
		return s
	}

	for _, e := range entries {
		s := bucket(domain.MonthOf(e.Date))
		s.EntryCount++
		switch e.Direction {
		case domain.DirectionIncome:
			s.TotalIncome = s.TotalIncome.Add(e.Amount)
			if e.Category == domain.CategoryBookingRevenue {
				s.BookingIncome = s.BookingIncome.Add(e.Amount)
			} else {
				s.OtherIncome = s.OtherIncome.Add(e.Amount)
			}
		case domain.DirectionExpense:
			s.TotalExpense = s.TotalExpense.Add(e.Amount)
		}
	}

	for _, t := range transfers {
		s := bucket(domain.MonthOf(t.Date))
		s.TransferCount++
		if t.Direction == domain.TransferReceived {
			s.TransfersReceived = s.TransfersReceived.Add(t.Amount)
		} else {
			s.TransfersSent = s.TransfersSent.Add(t.Amount)
		}
	}

	for _, b := range bookings {
		if b.Status == domain.BookingCancelled {
			continue
		}
		bucket(domain.MonthOf(b.CheckIn)).BookingCount++
	}

	out := make([]models.MonthlySummary, 0, len(buckets))
	for _, s := range buckets {
		s.NetBalance = s.TotalIncome.Sub(s.TotalExpense)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].Key().Before(out[i].Key())
	})
	return out
}

// services/ledger/internal/models/ledger.go
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

// MonthlySummary is a derived rollup of one calendar month. It is never
// persisted or edited directly.
type MonthlySummary struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	BookingIncome     decimal.Decimal `json:"booking_income"`
	OtherIncome       decimal.Decimal `json:"other_income"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpense      decimal.Decimal `json:"total_expense"`
	NetBalance        decimal.Decimal `json:"net_balance"`
	TransfersReceived decimal.Decimal `json:"transfers_received"`
	TransfersSent     decimal.Decimal `json:"transfers_sent"`
	BookingCount      int             `json:"booking_count"`
	EntryCount        int             `json:"entry_count"`
	TransferCount     int             `json:"transfer_count"`
}

// Key returns the calendar month the summary covers
func (s MonthlySummary) Key() domain.MonthKey {
	return domain.MonthKey{Year: s.Year, Month: time.Month(s.Month)}
}

// TransferResult is returned by operations that touch both halves of the
// transfer/entry link.
type TransferResult struct {
	Transfer domain.WireTransfer `json:"transfer"`
	Entry    domain.LedgerEntry  `json:"entry"`
}

// GenerateResult lists the entries created from bookings and expenses
type GenerateResult struct {
	Created []domain.LedgerEntry `json:"created"`
}

// SearchResult holds entries and transfers matching a free-text query
type SearchResult struct {
	Entries   []domain.LedgerEntry  `json:"entries"`
	Transfers []domain.WireTransfer `json:"transfers"`
}

type DiscrepancyType string

const (
	DiscrepancyMissingEntry     DiscrepancyType = "missing_booking_entry"
	DiscrepancyDuplicateEntry   DiscrepancyType = "duplicate_booking_entry"
	DiscrepancyOrphanEntry      DiscrepancyType = "orphan_booking_entry"
	DiscrepancyDanglingTransfer DiscrepancyType = "dangling_transfer_link"
	DiscrepancyBrokenBackLink   DiscrepancyType = "broken_entry_back_link"
	DiscrepancyAmountMismatch   DiscrepancyType = "transfer_amount_mismatch"
	DiscrepancyCategoryMismatch DiscrepancyType = "category_direction_mismatch"
)

// Discrepancy describes one mismatch found by reconciliation
type Discrepancy struct {
	Type        DiscrepancyType `json:"type"`
	EntityID    string          `json:"entity_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// ReconciliationReport checks the links between bookings, entries and
// transfers of one property.
type ReconciliationReport struct {
	ID            string          `json:"id" db:"id"`
	PropertyID    string          `json:"property_id,omitempty" db:"property_id"`
	TotalIncome   decimal.Decimal `json:"total_income" db:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense" db:"total_expense"`
	IsClean       bool            `json:"is_clean" db:"is_clean"`
	Discrepancies []Discrepancy   `json:"discrepancies"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Lines renders discrepancies one per line for storage.
func (r ReconciliationReport) Lines() []string {
	out := make([]string, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		out[i] = string(d.Type) + " " + d.EntityID + ": " + d.Description
	}
	return out
}

// ReportRecord is the stored form of a reconciliation report.
type ReportRecord struct {
	ID            string          `json:"id" db:"id"`
	PropertyID    string          `json:"property_id,omitempty" db:"property_id"`
	TotalIncome   decimal.Decimal `json:"total_income" db:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense" db:"total_expense"`
	IsClean       bool            `json:"is_clean" db:"is_clean"`
	Discrepancies []string        `json:"discrepancies" db:"discrepancies"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Record flattens the report for persistence
func (r ReconciliationReport) Record() ReportRecord {
	return ReportRecord{
		ID:            r.ID,
		PropertyID:    r.PropertyID,
		TotalIncome:   r.TotalIncome,
		TotalExpense:  r.TotalExpense,
		IsClean:       r.IsClean,
		Discrepancies: r.Lines(),
		CreatedAt:     r.CreatedAt,
	}
}

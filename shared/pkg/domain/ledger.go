// shared/pkg/domain/ledger.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is income or expense
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

type EntryCategory string

const (
	CategoryBookingRevenue EntryCategory = "booking_revenue"
	CategoryOtherIncome    EntryCategory = "other_income"
	CategoryOtherExpense   EntryCategory = "other_expense"
	CategoryMaintenance    EntryCategory = "maintenance"
	CategoryCleaning       EntryCategory = "cleaning"
	CategoryUtilities      EntryCategory = "utilities"
)

// Direction returns the only direction the category may be recorded with.
func (c EntryCategory) Direction() Direction {
	switch c {
	case CategoryBookingRevenue, CategoryOtherIncome:
		return DirectionIncome
	default:
		return DirectionExpense
	}
}

// PaymentMethod records how money moved
type PaymentMethod string

const (
	PaymentCash           PaymentMethod = "cash"
	PaymentWireTransfer   PaymentMethod = "wire_transfer"
	PaymentCard           PaymentMethod = "card"
	PaymentOnlinePlatform PaymentMethod = "online_platform"
)

// LedgerEntry is a unified cash-flow record. Amount is never negative;
// Direction carries the sign.
type LedgerEntry struct {
	ID               string          `json:"id" db:"id"`
	Description      string          `json:"description" db:"description"`
	Amount           decimal.Decimal `json:"amount" db:"amount" validate:"gte=0"`
	Date             time.Time       `json:"date" db:"date" validate:"required"`
	Direction        Direction       `json:"direction" db:"direction" validate:"oneof=income expense"`
	Category         EntryCategory   `json:"category" db:"category" validate:"oneof=booking_revenue other_income other_expense maintenance cleaning utilities"`
	PaymentMethod    PaymentMethod   `json:"payment_method" db:"payment_method" validate:"oneof=cash wire_transfer card online_platform"`
	Notes            string          `json:"notes" db:"notes"`
	LinkedBookingID  string          `json:"linked_booking_id,omitempty" db:"linked_booking_id"`
	LinkedTransferID string          `json:"linked_transfer_id,omitempty" db:"linked_transfer_id"`
	PropertyID       string          `json:"property_id,omitempty" db:"property_id"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// Signed returns the amount with the sign implied by the direction.
func (e LedgerEntry) Signed() decimal.Decimal {
	if e.Direction == DirectionExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Validate checks the field rules and that the direction matches the category
func (e LedgerEntry) Validate() error {
	if err := validateStruct(e); err != nil {
		return err
	}
	if want := e.Category.Direction(); want != e.Direction {
		return Invalid("category %s requires direction %s, got %s", e.Category, want, e.Direction)
	}
	return nil
}

func (e LedgerEntry) EntityID() string         { return e.ID }
func (e LedgerEntry) EntityDate() time.Time    { return e.Date }
func (e LedgerEntry) EntityPropertyID() string { return e.PropertyID }

// shared/pkg/domain/transfer.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransferDirection string

const (
	TransferReceived TransferDirection = "received"
	TransferSent     TransferDirection = "sent"
)

// TransferStatus tracks a transfer from pending to completed
type TransferStatus string

const (
	TransferPending    TransferStatus = "pending"
	TransferProcessing TransferStatus = "processing"
	TransferCompleted  TransferStatus = "completed"
	TransferRejected   TransferStatus = "rejected"
)

// WireTransfer is a bank transfer. Each transfer is backed by exactly one
// LedgerEntry, linked in both directions.
type WireTransfer struct {
	ID                  string            `json:"id" db:"id"`
	Amount              decimal.Decimal   `json:"amount" db:"amount" validate:"gte=0"`
	Date                time.Time         `json:"date" db:"date" validate:"required"`
	ValueDate           *time.Time        `json:"value_date,omitempty" db:"value_date"`
	PayerName           string            `json:"payer_name" db:"payer_name"`
	PayeeName           string            `json:"payee_name" db:"payee_name"`
	Reason              string            `json:"reason" db:"reason"`
	ReferenceCode       string            `json:"reference_code" db:"reference_code"`
	IBAN                string            `json:"iban" db:"iban"`
	BankName            string            `json:"bank_name" db:"bank_name"`
	Direction           TransferDirection `json:"direction" db:"direction" validate:"oneof=received sent"`
	Status              TransferStatus    `json:"status" db:"status" validate:"oneof=pending processing completed rejected"`
	Fees                decimal.Decimal   `json:"fees" db:"fees" validate:"gte=0"`
	Notes               string            `json:"notes" db:"notes"`
	LinkedLedgerEntryID string            `json:"linked_ledger_entry_id,omitempty" db:"linked_ledger_entry_id"`
	PropertyID          string            `json:"property_id,omitempty" db:"property_id"`
	CreatedAt           time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" db:"updated_at"`
}

// NetAmount is the transferred amount minus fees.
func (t WireTransfer) NetAmount() decimal.Decimal {
	return t.Amount.Sub(t.Fees)
}

// EntryDirection maps the transfer direction onto the ledger.
func (t WireTransfer) EntryDirection() Direction {
	if t.Direction == TransferReceived {
		return DirectionIncome
	}
	return DirectionExpense
}

// EntryDescription is the description carried by the backing ledger entry.
func (t WireTransfer) EntryDescription() string {
	var b strings.Builder
	if t.Direction == TransferReceived {
		fmt.Fprintf(&b, "Wire transfer from %s", fallback(t.PayerName, "unknown payer"))
	} else {
		fmt.Fprintf(&b, "Wire transfer to %s", fallback(t.PayeeName, "unknown payee"))
	}
	if t.Reason != "" {
		b.WriteString(": ")
		b.WriteString(t.Reason)
	}
	return b.String()
}

// ApplyTo copies the transfer's financial fields onto its backing entry.
func (t WireTransfer) ApplyTo(e *LedgerEntry) {
	e.Description = t.EntryDescription()
	e.Amount = t.NetAmount().Abs()
	e.Date = t.Date
	e.Notes = t.Notes
	e.Direction = t.EntryDirection()
	if e.Category == "" || e.Category.Direction() != e.Direction {
		if e.Direction == DirectionIncome {
			e.Category = CategoryOtherIncome
		} else {
			e.Category = CategoryOtherExpense
		}
	}
	e.PaymentMethod = PaymentWireTransfer
	e.LinkedTransferID = t.ID
	e.PropertyID = t.PropertyID
}

// LedgerEntry derives a fresh backing entry for the transfer.
func (t WireTransfer) LedgerEntry(id string) LedgerEntry {
	e := LedgerEntry{ID: id}
	t.ApplyTo(&e)
	return e
}

// Validate checks the field rules
func (t WireTransfer) Validate() error {
	return validateStruct(t)
}

func (t WireTransfer) EntityID() string         { return t.ID }
func (t WireTransfer) EntityDate() time.Time    { return t.Date }
func (t WireTransfer) EntityPropertyID() string { return t.PropertyID }

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

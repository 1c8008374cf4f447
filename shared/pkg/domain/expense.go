// shared/pkg/domain/expense.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory groups expenses
type ExpenseCategory string

const (
	ExpenseCleaning    ExpenseCategory = "cleaning"
	ExpenseMaintenance ExpenseCategory = "maintenance"
	ExpenseUtilities   ExpenseCategory = "utilities"
	ExpenseTaxes       ExpenseCategory = "taxes"
	ExpenseOther       ExpenseCategory = "other"
)

// Expense is a cost incurred for a property.
type Expense struct {
	ID          string          `json:"id" db:"id"`
	PropertyID  string          `json:"property_id,omitempty" db:"property_id"`
	Description string          `json:"description" db:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" db:"amount" validate:"gte=0"`
	Date        time.Time       `json:"date" db:"date" validate:"required"`
	Category    ExpenseCategory `json:"category" db:"category" validate:"oneof=cleaning maintenance utilities taxes other"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Validate checks the field rules
func (e Expense) Validate() error {
	return validateStruct(e)
}

func (e Expense) EntityID() string         { return e.ID }
func (e Expense) EntityDate() time.Time    { return e.Date }
func (e Expense) EntityPropertyID() string { return e.PropertyID }

// shared/pkg/domain/booking.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a reservation of a property.
type Booking struct {
	ID         string          `json:"id" db:"id"`
	GuestName  string          `json:"guest_name" db:"guest_name" validate:"required"`
	Email      string          `json:"email" db:"email" validate:"omitempty,email"`
	Phone      string          `json:"phone" db:"phone"`
	CheckIn    time.Time       `json:"check_in" db:"check_in" validate:"required"`
	CheckOut   time.Time       `json:"check_out" db:"check_out" validate:"required"`
	GuestCount int             `json:"guest_count" db:"guest_count" validate:"gte=1"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price" validate:"gte=0"`
	Status     BookingStatus   `json:"status" db:"status" validate:"oneof=confirmed pending cancelled completed"`
	Notes      string          `json:"notes" db:"notes"`
	PropertyID string          `json:"property_id,omitempty" db:"property_id"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// Nights is the number of calendar days between check-in and check-out, never negative.
func (b Booking) Nights() int {
	n := DaysBetween(b.CheckIn, b.CheckOut)
	if n < 0 {
		return 0
	}
	return n
}

// EarnsRevenue reports whether the booking counts towards income.
func (b Booking) EarnsRevenue() bool {
	return b.Status == BookingConfirmed || b.Status == BookingCompleted
}

// Occupies reports whether the night starting on day is covered by the stay.
func (b Booking) Occupies(day time.Time) bool {
	if b.Status == BookingCancelled {
		return false
	}
	d := CivilDate(day)
	return !d.Before(CivilDate(b.CheckIn)) && d.Before(CivilDate(b.CheckOut))
}

// Validate checks the field rules and rejects a check-out before check-in
func (b Booking) Validate() error {
	if err := validateStruct(b); err != nil {
		return err
	}
	if DaysBetween(b.CheckIn, b.CheckOut) < 0 {
		return Invalid("check_out %s is before check_in %s",
			b.CheckOut.Format("2006-01-02"), b.CheckIn.Format("2006-01-02"))
	}
	return nil
}

func (b Booking) EntityID() string         { return b.ID }
func (b Booking) EntityDate() time.Time    { return b.CheckIn }
func (b Booking) EntityPropertyID() string { return b.PropertyID }

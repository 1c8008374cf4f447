// shared/pkg/reminder/reminder.go
package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

// Kind identifies the reminder type
type Kind string

const (
	KindCheckIn  Kind = "check_in"
	KindCheckOut Kind = "check_out"
)

// Reminder is a notification due at a given time
type Reminder struct {
	ID         string    `json:"id" bson:"_id"`
	BookingID  string    `json:"booking_id" bson:"booking_id"`
	PropertyID string    `json:"property_id,omitempty" bson:"property_id,omitempty"`
	Kind       Kind      `json:"kind" bson:"kind"`
	DueAt      time.Time `json:"due_at" bson:"due_at"`
	Message    string    `json:"message" bson:"message"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Sink receives reminders derived from bookings. Callers treat failures as
// best effort: they log and carry on.
type Sink interface {
	Schedule(ctx context.Context, r Reminder) error
	Cancel(ctx context.Context, bookingID string) error
}

// ForBooking derives the reminders a booking needs. Cancelled bookings need none.
func ForBooking(b domain.Booking, now time.Time) []Reminder {
	if b.Status == domain.BookingCancelled {
		return nil
	}
	checkIn := domain.CivilDate(b.CheckIn)
	return []Reminder{
		{
			ID:         b.ID + ":" + string(KindCheckIn),
			BookingID:  b.ID,
			PropertyID: b.PropertyID,
			Kind:       KindCheckIn,
			DueAt:      checkIn.AddDate(0, 0, -1),
			Message:    fmt.Sprintf("%s arrives tomorrow (%d guests)", b.GuestName, b.GuestCount),
			CreatedAt:  now,
		},
		{
			ID:         b.ID + ":" + string(KindCheckOut),
			BookingID:  b.ID,
			PropertyID: b.PropertyID,
			Kind:       KindCheckOut,
			DueAt:      domain.CivilDate(b.CheckOut),
			Message:    fmt.Sprintf("%s checks out today", b.GuestName),
			CreatedAt:  now,
		},
	}
}

// Sync replaces whatever was scheduled for the booking with its current reminders.
func Sync(ctx context.Context, sink Sink, b domain.Booking, now time.Time) error {
	if err := sink.Cancel(ctx, b.ID); err != nil {
		return err
	}
	for _, r := range ForBooking(b, now) {
		if err := sink.Schedule(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// LogSink only writes reminders to the log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink that only logs
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Schedule(_ context.Context, r Reminder) error {
	s.logger.Info("reminder scheduled",
		zap.String("reminder_id", r.ID),
		zap.String("booking_id", r.BookingID),
		zap.String("kind", string(r.Kind)),
		zap.Time("due_at", r.DueAt),
		zap.String("message", r.Message),
	)
	return nil
}

func (s *LogSink) Cancel(_ context.Context, bookingID string) error {
	s.logger.Info("reminders cancelled", zap.String("booking_id", bookingID))
	return nil
}

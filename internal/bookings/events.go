package bookings

import (
	"time"

	"github.com/google/uuid"

	"ticketry/internal/waitlist"
)

// Lifecycle event types emitted on the booking event stream.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventUserWaitlisted   = "booking.waitlisted"
	EventTicketReassigned = "booking.reassigned"
)

// LifecycleEvent is the record published to the booking event stream after
// a transaction commits. Consumers get an audit trail of every counter and
// queue change; the engine never reads these back.
type LifecycleEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	EventID   uint      `json:"event_id"`
	UserID    uint      `json:"user_id"`
	BookingID uint      `json:"booking_id,omitempty"`
	EntryID   uint      `json:"waiting_list_id,omitempty"`
	Position  int       `json:"position,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func newLifecycleEvent(eventType string, eventID, userID uint) *LifecycleEvent {
	return &LifecycleEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		EventID:   eventID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

func NewConfirmedEvent(booking *Booking) *LifecycleEvent {
	e := newLifecycleEvent(EventBookingConfirmed, booking.EventID, booking.UserID)
	e.BookingID = booking.ID
	return e
}

func NewCancelledEvent(booking *Booking) *LifecycleEvent {
	e := newLifecycleEvent(EventBookingCancelled, booking.EventID, booking.UserID)
	e.BookingID = booking.ID
	return e
}

func NewWaitlistedEvent(entry *waitlist.Entry) *LifecycleEvent {
	e := newLifecycleEvent(EventUserWaitlisted, entry.EventID, entry.UserID)
	e.EntryID = entry.ID
	e.Position = entry.Position
	return e
}

func NewPromotedEvent(booking *Booking, entry *waitlist.Entry) *LifecycleEvent {
	e := newLifecycleEvent(EventTicketReassigned, booking.EventID, booking.UserID)
	e.BookingID = booking.ID
	e.EntryID = entry.ID
	return e
}

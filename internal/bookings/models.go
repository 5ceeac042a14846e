package bookings

import (
	"time"
)

// Booking is a reservation of exactly one ticket by one user for one event.
// At most one confirmed booking exists per (event, user); the only transition
// is confirmed -> cancelled and records are never deleted.
type Booking struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID     uint       `json:"event_id" gorm:"index;not null"`
	UserID      uint       `json:"user_id" gorm:"index;not null"`
	Status      Status     `json:"status" gorm:"type:varchar(20);not null;default:'confirmed';check:chk_booking_status,status IN ('confirmed', 'cancelled')"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Package migrations owns schema setup. It lives apart from the database
// package because it imports the domain models, which themselves depend on
// the database package for the Tx abstraction.
package migrations

import (
	"gorm.io/gorm"

	"ticketry/internal/bookings"
	"ticketry/internal/events"
	"ticketry/internal/users"
	"ticketry/internal/waitlist"
)

func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&bookings.Booking{},
		&waitlist.Entry{},
	); err != nil {
		return err
	}
	return addConstraints(db)
}

// addConstraints adds the partial unique indexes that back the booking
// invariants at the storage level. Row locking in the engine is the primary
// guard; these make a violation impossible even if a future code path skips it.
func addConstraints(db *gorm.DB) error {
	// One confirmed booking per user per event
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_confirmed_booking_per_user_event
		ON bookings (event_id, user_id)
		WHERE status = 'confirmed';
	`).Error
	if err != nil {
		return err
	}

	// One waiting entry per user per event
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_waiting_entry_per_user_event
		ON waiting_list (event_id, user_id)
		WHERE status = 'waiting';
	`).Error
	if err != nil {
		return err
	}

	// Waiting positions are unique per event
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_waiting_position_per_event
		ON waiting_list (event_id, position)
		WHERE status = 'waiting';
	`).Error
	if err != nil {
		return err
	}

	return nil
}

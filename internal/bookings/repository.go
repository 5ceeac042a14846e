package bookings

import (
	"context"
	"errors"
	"time"

	"ticketry/internal/shared/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository owns booking records. Mutating methods and locking reads run
// inside an engine-held transaction.
type Repository interface {
	Create(tx database.Tx, eventID, userID uint) (*Booking, error)
	FindActiveConfirmed(tx database.Tx, eventID, userID uint) (*Booking, error)
	FindForUpdate(tx database.Tx, bookingID uint) (*Booking, error)
	Cancel(tx database.Tx, bookingID uint) error

	// Non-locking count for status reporting
	CountConfirmed(ctx context.Context, eventID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(tx database.Tx, eventID, userID uint) (*Booking, error) {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		EventID: eventID,
		UserID:  userID,
		Status:  StatusConfirmed,
	}

	if err := db.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *repository) FindActiveConfirmed(tx database.Tx, eventID, userID uint) (*Booking, error) {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return nil, err
	}

	var booking Booking
	err = db.Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, StatusConfirmed).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// FindForUpdate locks the booking row for the rest of the transaction, or
// returns nil when no such booking exists.
func (r *repository) FindForUpdate(tx database.Tx, bookingID uint) (*Booking, error) {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return nil, err
	}

	var booking Booking
	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", bookingID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) Cancel(tx database.Tx, bookingID uint) error {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return err
	}

	now := time.Now()
	return db.Model(&Booking{}).
		Where("id = ? AND status = ?", bookingID, StatusConfirmed).
		Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": &now,
			"updated_at":   now,
		}).Error
}

func (r *repository) CountConfirmed(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("event_id = ? AND status = ?", eventID, StatusConfirmed).
		Count(&count).Error
	return count, err
}

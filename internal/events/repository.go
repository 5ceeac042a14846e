package events

import (
	"context"
	"errors"

	"ticketry/internal/shared/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository owns the event rows and their ticket counters. The locking and
// counter methods are only ever called inside an engine-held transaction; the
// repository itself takes no locks beyond what the caller's Tx carries.
type Repository interface {
	Create(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, eventID uint) (*Event, error)

	// Transactional operations, called by the booking engine
	FindForUpdate(tx database.Tx, eventID uint) (*Event, error)
	DecrementIfPositive(tx database.Tx, eventID uint) (bool, error)
	Increment(tx database.Tx, eventID uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) FindByID(ctx context.Context, eventID uint) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// FindForUpdate locks the event row for the rest of the transaction. This is
// the critical section that serializes all book/cancel calls on one event.
func (r *repository) FindForUpdate(tx database.Tx, eventID uint) (*Event, error) {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return nil, err
	}

	var event Event
	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", eventID).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// DecrementIfPositive takes one ticket off the pool. Returns false without
// mutating anything when no tickets remain.
func (r *repository) DecrementIfPositive(tx database.Tx, eventID uint) (bool, error) {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return false, err
	}

	result := db.Model(&Event{}).
		Where("id = ? AND available_tickets > 0", eventID).
		UpdateColumn("available_tickets", gorm.Expr("available_tickets - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Increment returns one ticket to the pool.
func (r *repository) Increment(tx database.Tx, eventID uint) error {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return err
	}

	return db.Model(&Event{}).
		Where("id = ?", eventID).
		UpdateColumn("available_tickets", gorm.Expr("available_tickets + 1")).Error
}

package waitlist

import (
	"context"
	"errors"
	"time"

	"ticketry/internal/shared/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository owns the per-event FIFO of waiting users. All mutating methods
// run inside an engine-held transaction and rely on its locks.
type Repository interface {
	Add(tx database.Tx, eventID, userID uint) (*Entry, error)
	PeekHeadForUpdate(tx database.Tx, eventID uint) (*Entry, error)
	Promote(tx database.Tx, entryID uint) error
	FindByUser(tx database.Tx, eventID, userID uint) (*Entry, error)

	// Non-locking count for status reporting
	CountWaiting(ctx context.Context, eventID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Add appends a user to the queue at MAX(waiting position)+1, or 1 for an
// empty queue. The caller must hold the event lock, which makes the
// read-then-insert race free.
func (r *repository) Add(tx database.Tx, eventID, userID uint) (*Entry, error) {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return nil, err
	}

	var nextPosition int
	err = db.Model(&Entry{}).
		Where("event_id = ? AND status = ?", eventID, StatusWaiting).
		Select("COALESCE(MAX(position), 0) + 1").
		Scan(&nextPosition).Error
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		EventID:  eventID,
		UserID:   userID,
		Position: nextPosition,
		Status:   StatusWaiting,
	}

	if err := db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// PeekHeadForUpdate locks and returns the lowest-position waiting entry for
// the event, or nil when the queue is empty.
func (r *repository) PeekHeadForUpdate(tx database.Tx, eventID uint) (*Entry, error) {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return nil, err
	}

	var entry Entry
	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ? AND status = ?", eventID, StatusWaiting).
		Order("position ASC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// Promote marks an entry promoted. Terminal; positions of the remaining
// waiting entries are left untouched.
func (r *repository) Promote(tx database.Tx, entryID uint) error {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return err
	}

	now := time.Now()
	return db.Model(&Entry{}).
		Where("id = ? AND status = ?", entryID, StatusWaiting).
		Updates(map[string]interface{}{
			"status":      StatusPromoted,
			"promoted_at": &now,
			"updated_at":  now,
		}).Error
}

func (r *repository) FindByUser(tx database.Tx, eventID, userID uint) (*Entry, error) {
	db, err := database.UnwrapGorm(tx)
	if err != nil {
		return nil, err
	}

	var entry Entry
	err = db.Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, StatusWaiting).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) CountWaiting(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Entry{}).
		Where("event_id = ? AND status = ?", eventID, StatusWaiting).
		Count(&count).Error
	return count, err
}

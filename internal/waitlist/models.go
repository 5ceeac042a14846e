package waitlist

import (
	"time"
)

// Status represents the lifecycle of a waiting list entry
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPromoted Status = "promoted"
)

// Entry is a queued request for a ticket. Positions are assigned once in
// strict arrival order and are never renumbered; the only transition is
// waiting -> promoted. There is no withdrawal.
type Entry struct {
	ID         uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID    uint       `json:"event_id" gorm:"index;not null"`
	UserID     uint       `json:"user_id" gorm:"index;not null"`
	Position   int        `json:"position" gorm:"not null"`
	Status     Status     `json:"status" gorm:"type:varchar(20);not null;default:'waiting';check:chk_waitlist_status,status IN ('waiting', 'promoted')"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	PromotedAt *time.Time `json:"promoted_at,omitempty"`
}

func (Entry) TableName() string {
	return "waiting_list"
}

// IsWaiting returns true while the entry is still queued
func (e *Entry) IsWaiting() bool {
	return e.Status == StatusWaiting
}

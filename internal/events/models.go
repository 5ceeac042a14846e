package events

import (
	"time"

	"ticketry/internal/shared/constants"
)

// Event holds a fixed ticket pool. AvailableTickets is mutated only by the
// booking engine inside a locked transaction; 0 <= available <= total holds
// between transactions.
type Event struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name             string    `json:"name" gorm:"not null;size:255"`
	TotalTickets     int       `json:"total_tickets" gorm:"not null;check:chk_total_positive,total_tickets > 0"`
	AvailableTickets int       `json:"available_tickets" gorm:"not null;check:chk_available_range,available_tickets >= 0 AND available_tickets <= total_tickets"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// StatusCacheKey returns the Redis key for an event's cached status snapshot
func StatusCacheKey(eventID uint) string {
	return constants.BuildEventStatusKey(eventID)
}

package bookings

// BookResult reports the outcome of a book call. Exactly one of BookingID
// and WaitingListID is set, matching Status.
type BookResult struct {
	BookingID     uint   `json:"booking_id,omitempty"`
	WaitingListID uint   `json:"waiting_list_id,omitempty"`
	EventID       uint   `json:"event_id"`
	UserID        uint   `json:"user_id"`
	Position      int    `json:"position,omitempty"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
}

// ReassignedBooking identifies the waiting user who received the freed
// ticket during a cancellation.
type ReassignedBooking struct {
	UserID    uint `json:"user_id"`
	BookingID uint `json:"booking_id"`
}

type CancelResult struct {
	Message      string             `json:"message"`
	Reassigned   bool               `json:"reassigned"`
	ReassignedTo *ReassignedBooking `json:"reassigned_to,omitempty"`
}

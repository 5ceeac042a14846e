package bookings

type BookTicketRequest struct {
	EventID uint `json:"event_id" binding:"required,min=1"`
}

type CancelBookingRequest struct {
	BookingID uint `json:"booking_id" binding:"required,min=1"`
}

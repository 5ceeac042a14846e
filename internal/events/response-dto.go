package events

type EventResponse struct {
	EventID          uint   `json:"event_id"`
	Name             string `json:"name"`
	TotalTickets     int    `json:"total_tickets"`
	AvailableTickets int    `json:"available_tickets"`
}

type EventStatusResponse struct {
	EventID          uint   `json:"event_id"`
	Name             string `json:"name"`
	TotalTickets     int    `json:"total_tickets"`
	AvailableTickets int    `json:"available_tickets"`
	BookedTickets    int    `json:"booked_tickets"`
	WaitingListCount int    `json:"waiting_list_count"`
}

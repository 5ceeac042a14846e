package events

type InitializeEventRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=255"`
	TotalTickets int    `json:"total_tickets" binding:"required,min=1"`
}

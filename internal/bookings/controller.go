package bookings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketry/internal/shared/middleware"
	"ticketry/internal/shared/utils/response"
)

type Controller interface {
	BookTicket(c *gin.Context)
	CancelBooking(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) BookTicket(c *gin.Context) {
	var req BookTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	result, err := ctrl.service.Book(c.Request.Context(), req.EventID, userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	if result.Status == string(StatusConfirmed) {
		response.RespondJSON(c, "success", http.StatusCreated, "Ticket booked successfully", result, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusAccepted, "Added to waiting list", result, nil)
}

func (ctrl *controller) CancelBooking(c *gin.Context) {
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.Cancel(c.Request.Context(), req.BookingID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, result.Message, result, nil)
}

package events

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ticketry/internal/shared/utils/response"
)

type Controller interface {
	InitializeEvent(c *gin.Context)
	GetEventStatus(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) InitializeEvent(c *gin.Context) {
	var req InitializeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	event, err := ctrl.service.Initialize(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event initialized successfully", event, nil)
}

func (ctrl *controller) GetEventStatus(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil || eventID == 0 {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	status, err := ctrl.service.GetStatus(c.Request.Context(), uint(eventID))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event status retrieved successfully", status, nil)
}

package bookings

import (
	"github.com/gin-gonic/gin"
)

type Router struct {
	controller Controller
	authMW     gin.HandlerFunc
}

func NewRouter(controller Controller, authMW gin.HandlerFunc) *Router {
	return &Router{controller: controller, authMW: authMW}
}

func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	bookingGroup := rg.Group("/bookings")
	bookingGroup.Use(r.authMW)
	{
		bookingGroup.POST("/book", r.controller.BookTicket)
		bookingGroup.POST("/cancel", r.controller.CancelBooking)
	}
}

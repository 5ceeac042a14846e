package events

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
	eventGroup := rg.Group("/events")
	{
		eventGroup.POST("/initialize", r.authMW, r.controller.InitializeEvent)
		eventGroup.GET("/status/:eventId", r.controller.GetEventStatus)
	}
}

package auth

import (
	"github.com/gin-gonic/gin"
)

type Router struct {
	controller Controller
}

func NewRouter(controller Controller) *Router {
	return &Router{controller: controller}
}

func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", r.controller.Register)
		authGroup.POST("/login", r.controller.Login)
		authGroup.POST("/refresh", r.controller.RefreshToken)
	}
}

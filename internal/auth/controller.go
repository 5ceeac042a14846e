package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketry/internal/shared/utils/response"
	"ticketry/pkg/logger"
)

type Controller interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	RefreshToken(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.Register(c.Request.Context(), &req)
	if err != nil {
		if err == ErrUserAlreadyExists {
			response.RespondJSON(c, "error", http.StatusConflict, "User already exists", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to register user", nil, nil)
		return
	}

	logger.GetDefault().LogAuthSuccess(c.Request.Context(), result.User.ID, "register")
	response.RespondJSON(c, "success", http.StatusCreated, "User registered successfully", result, nil)
}

func (ctrl *controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.Login(c.Request.Context(), &req)
	if err != nil {
		if err == ErrInvalidCredentials {
			logger.GetDefault().LogAuthFailure(c.Request.Context(), "invalid credentials", c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid email or password", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to log in", nil, nil)
		return
	}

	logger.GetDefault().LogAuthSuccess(c.Request.Context(), result.User.ID, "login")
	response.RespondJSON(c, "success", http.StatusOK, "Logged in successfully", result, nil)
}

func (ctrl *controller) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	tokenPair, err := ctrl.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid or expired refresh token", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Token refreshed", tokenPair, nil)
}

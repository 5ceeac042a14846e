package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ticketry/internal/auth"
	"ticketry/internal/bookings"
	"ticketry/internal/events"
	"ticketry/internal/shared/config"
	"ticketry/internal/shared/database"
	"ticketry/internal/shared/middleware"
	"ticketry/internal/waitlist"
	"ticketry/pkg/cache"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher bookings.EventPublisher
}

// NewRouter creates a new router instance. publisher may be nil, in which
// case booking lifecycle events are not streamed.
func NewRouter(cfg *config.Config, db *database.DB, publisher bookings.EventPublisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	authMW := middleware.JWTAuth(r.config)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupEventRoutes(api, authMW)
		r.setupBookingRoutes(api, authMW)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "ticketry",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "ticketry",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg)
}

// setupEventRoutes configures event management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	waitlistRepo := waitlist.NewRepository(r.db.GetPostgreSQL())

	eventService := events.NewService(eventRepo, bookingRepo, waitlistRepo)
	eventService.SetCacheService(cache.NewService(r.db.GetRedisClient()), r.config.Redis.StatusCacheTTL)

	eventController := events.NewController(eventService)
	eventRouter := events.NewRouter(eventController, authMW)

	eventRouter.SetupRoutes(rg)
}

// setupBookingRoutes configures the booking and cancellation routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	txManager := database.NewTxManager(r.db.GetPostgreSQL())
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	waitlistRepo := waitlist.NewRepository(r.db.GetPostgreSQL())

	bookingService := bookings.NewServiceWithPublisher(txManager, bookingRepo, eventRepo, waitlistRepo, r.publisher)
	bookingController := bookings.NewController(bookingService)
	bookingRouter := bookings.NewRouter(bookingController, authMW)

	bookingRouter.SetupRoutes(rg)
}

package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farra-app/farra-api/internal/config"
	"github.com/farra-app/farra-api/internal/container"
	"github.com/farra-app/farra-api/internal/handlers"
	"github.com/farra-app/farra-api/internal/middleware"
	"github.com/farra-app/farra-api/internal/models"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(cfg *config.Config, container *container.Container) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Farra-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "farra-api",
			})
		})
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Verifier, container.Logger))

	protected.GET("/profile", func(c *gin.Context) {
		user := middleware.UserFromContext(c)
		if user == nil {
			c.JSON(401, models.ErrorResponse("unauthorized"))
			return
		}
		c.JSON(200, models.SuccessResponse(user, ""))
	})

	venueRoutes := protected.Group("/venues")
	{
		venueRoutes.POST("", handlers.CreateVenue(container.VenueService))
		venueRoutes.GET("", handlers.ListVenues(container.VenueService))
	}

	eventRoutes := protected.Group("/owners/:ownerId/venues/:venueId/events")
	{
		eventRoutes.POST("", handlers.CreateEvent(container.VenueService))
		eventRoutes.GET("", handlers.ListEvents(container.VenueService))
		eventRoutes.GET("/:eventId", handlers.GetEvent(container.VenueService))
		eventRoutes.GET("/:eventId/permissions", handlers.GetPermissions(container.PermissionService))

		eventRoutes.POST("/:eventId/tickets", handlers.IssueTicket(container.TicketService))
		eventRoutes.GET("/:eventId/tickets", handlers.ListTickets(container.TicketService))
		eventRoutes.PATCH("/:eventId/tickets/:ticketId/status", handlers.UpdateTicketStatus(container.TicketService))

		eventRoutes.POST("/:eventId/collaborators", handlers.AddCollaborator(container.CollaboratorService))
		eventRoutes.GET("/:eventId/collaborators", handlers.ListCollaborators(container.CollaboratorService))

		eventRoutes.GET("/:eventId/bitacora", handlers.GetBitacora(container.BitacoraService, container.PermissionService))
		eventRoutes.GET("/:eventId/bitacora/stream", handlers.StreamBitacora(container.BitacoraService, container.PermissionService))
	}

	protected.POST("/scan", container.RateLimiter.ScanRateLimit(), handlers.Scan(container.TicketService))
	protected.GET("/tickets/:code/qr", handlers.TicketQR())
	protected.GET("/collaborations", handlers.ListCollaborations(container.CollaboratorService))

	return r
}

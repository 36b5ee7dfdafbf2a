package container

import (
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	pubnub "github.com/pubnub/go/v7"
	"github.com/redis/go-redis/v9"

	"github.com/farra-app/farra-api/internal/helpers"
	"github.com/farra-app/farra-api/internal/middleware"
	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/realtime"
	"github.com/farra-app/farra-api/internal/security"
	"github.com/farra-app/farra-api/internal/services"
	"github.com/farra-app/farra-api/internal/validation"
)

const (
	scanRateLimit  = 30
	scanRateWindow = time.Minute
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	Verifier   middleware.TokenVerifier

	Hub         *realtime.Hub
	RateLimiter *security.RateLimiter

	PermissionService   *services.PermissionService
	VenueService        *services.VenueService
	TicketService       *services.TicketService
	CollaboratorService *services.CollaboratorService
	BitacoraService     *services.BitacoraService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	store models.TreeStore,
	verifier middleware.TokenVerifier,
	redisClient *redis.Client,
	pn *pubnub.PubNub,
	cld *cloudinary.Cloudinary,
) *Container {
	validation.Register(models.Validate)

	var publisher realtime.Publisher
	if pn != nil {
		publisher = realtime.NewPubNubPublisher(pn, logger)
	}
	hub := realtime.NewHub(publisher)

	repo := models.NewRTDBRepo(store, hub)

	var uploads services.QRUploader
	if cld != nil {
		uploads = helpers.NewCloudinaryQRUploader(cld)
	}

	permissionService := services.NewPermissionService(repo)
	bitacoraService := services.NewBitacoraService(repo, hub)
	venueService := services.NewVenueService(repo, permissionService, bitacoraService, hub, logger)
	ticketService := services.NewTicketService(repo, permissionService, bitacoraService, hub, uploads, logger)
	collaboratorService := services.NewCollaboratorService(repo, permissionService, bitacoraService, hub, logger)

	return &Container{
		Logger:              logger,
		Cloudinary:          cld,
		Verifier:            verifier,
		Hub:                 hub,
		RateLimiter:         security.NewRateLimiter(redisClient, scanRateLimit, scanRateWindow),
		PermissionService:   permissionService,
		VenueService:        venueService,
		TicketService:       ticketService,
		CollaboratorService: collaboratorService,
		BitacoraService:     bitacoraService,
	}
}

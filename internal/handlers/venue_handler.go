package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farra-app/farra-api/internal/middleware"
	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/services"
)

func CreateVenue(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		var req services.CreateVenueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		venue, err := v.CreateVenue(c.Request.Context(), actor, req)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(venue, "Venue created successfully"))
	}
}

func ListVenues(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		venues, err := v.GetVenues(c.Request.Context(), actor)
		if err != nil {
			serviceError(c, err)
			return
		}
		res := models.SuccessResponse(venues, "")
		res.Total = len(venues)
		c.JSON(http.StatusOK, res)
	}
}

func CreateEvent(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)
		if !actor.IsOwnerOf(c.Param("ownerId")) {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only the venue owner can create events"))
			return
		}

		var req services.CreateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := v.CreateEvent(c.Request.Context(), actor, c.Param("venueId"), req)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(event, "Event created successfully"))
	}
}

// ListEvents is open to the owner and to collaborators: the service filters
// the listing down to the events the actor may actually see.
func ListEvents(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		events, err := v.GetEvents(c.Request.Context(), actor, c.Param("ownerId"), c.Param("venueId"))
		if err != nil {
			serviceError(c, err)
			return
		}
		res := models.SuccessResponse(events, "")
		res.Total = len(events)
		c.JSON(http.StatusOK, res)
	}
}

func GetEvent(v *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		event, err := v.GetEvent(c.Request.Context(), actor, eventRefFromParams(c))
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

// GetPermissions reports the actor's effective permission set on the event,
// so clients can render the right controls without guessing.
func GetPermissions(p *services.PermissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)
		if actor == nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		perms := p.EffectivePermissions(c.Request.Context(), actor, eventRefFromParams(c))
		if perms == nil {
			c.JSON(http.StatusForbidden, models.ErrorResponse("you do not have access to this event"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(perms, ""))
	}
}

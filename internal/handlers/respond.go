package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/services"
)

// eventRefFromParams reads the tree coordinates every event-scoped route
// carries in its path.
func eventRefFromParams(c *gin.Context) models.EventRef {
	return models.EventRef{
		OwnerUID: c.Param("ownerId"),
		VenueID:  c.Param("venueId"),
		EventID:  c.Param("eventId"),
	}
}

// serviceError translates the service sentinels into HTTP statuses. Unknown
// errors become an opaque 500; their detail goes to the log, not the client.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, models.ErrorResponse("you do not have permission to perform this action"))
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid ticket status"))
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse("not found"))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("internal server error"))
	}
}

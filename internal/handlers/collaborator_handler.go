package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farra-app/farra-api/internal/middleware"
	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/services"
)

func AddCollaborator(s *services.CollaboratorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		var req services.AddCollaboratorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		collab, err := s.AddCollaborator(c.Request.Context(), actor, eventRefFromParams(c), req)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(collab, "Collaborator added successfully"))
	}
}

func ListCollaborators(s *services.CollaboratorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		roster, err := s.GetCollaborators(c.Request.Context(), actor, eventRefFromParams(c))
		if err != nil {
			serviceError(c, err)
			return
		}
		res := models.SuccessResponse(roster, "")
		res.Total = len(roster)
		c.JSON(http.StatusOK, res)
	}
}

// ListCollaborations is the collaborator's home screen: every event, across
// all owners, that lists the actor's email on its roster.
func ListCollaborations(s *services.CollaboratorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		events, err := s.ListMyEvents(c.Request.Context(), actor)
		if err != nil {
			serviceError(c, err)
			return
		}
		res := models.SuccessResponse(events, "")
		res.Total = len(events)
		c.JSON(http.StatusOK, res)
	}
}

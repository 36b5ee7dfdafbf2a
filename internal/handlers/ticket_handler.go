package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farra-app/farra-api/internal/middleware"
	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/qr"
	"github.com/farra-app/farra-api/internal/services"
)

func IssueTicket(t *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		var req services.IssueTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		issued, err := t.IssueTicket(c.Request.Context(), actor, eventRefFromParams(c), req)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(issued, "Ticket issued successfully"))
	}
}

func ListTickets(t *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		tickets, err := t.GetTickets(c.Request.Context(), actor, eventRefFromParams(c))
		if err != nil {
			serviceError(c, err)
			return
		}
		res := models.SuccessResponse(tickets, "")
		res.Total = len(tickets)
		c.JSON(http.StatusOK, res)
	}
}

type updateStatusRequest struct {
	Status string `json:"estado"`
}

func UpdateTicketStatus(t *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		err := t.UpdateTicketStatus(c.Request.Context(), actor, eventRefFromParams(c), c.Param("ticketId"), req.Status)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Ticket status updated"))
	}
}

// TicketQR renders the PNG for a secure code. It does not check that the
// code exists: the image is a pure function of the string and leaks nothing.
func TicketQR() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Param("code"))
		if code == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("code is required"))
			return
		}

		png, err := qr.Encode(code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to render QR image"))
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}

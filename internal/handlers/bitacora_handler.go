package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/farra-app/farra-api/internal/middleware"
	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/services"
	"github.com/farra-app/farra-api/internal/validation"
)

func GetBitacora(b *services.BitacoraService, p *services.PermissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)
		ref := eventRefFromParams(c)
		if !p.CheckPermission(c.Request.Context(), actor, ref, models.PermViewReports) {
			c.JSON(http.StatusForbidden, models.ErrorResponse("you do not have permission to view the log"))
			return
		}

		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultLogLimit)))
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
			return
		}
		limit = validation.Clamp(limit, 1, services.DefaultLogLimit)

		entries, err := b.GetLog(c.Request.Context(), ref, limit)
		if err != nil {
			serviceError(c, err)
			return
		}
		res := models.SuccessResponse(entries, "")
		res.Total = len(entries)
		c.JSON(http.StatusOK, res)
	}
}

// StreamBitacora pushes the log over SSE: the full current view on connect,
// then again after every change, until the client hangs up.
func StreamBitacora(b *services.BitacoraService, p *services.PermissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)
		ref := eventRefFromParams(c)
		if !p.CheckPermission(c.Request.Context(), actor, ref, models.PermViewReports) {
			c.JSON(http.StatusForbidden, models.ErrorResponse("you do not have permission to view the log"))
			return
		}

		// Buffered so a slow client skips updates instead of blocking the hub.
		updates := make(chan []models.LogEntry, 8)
		unsubscribe := b.SubscribeToLog(c.Request.Context(), ref, services.DefaultLogLimit, func(entries []models.LogEntry) {
			select {
			case updates <- entries:
			default:
			}
		})
		defer unsubscribe()

		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Stream(func(w io.Writer) bool {
			select {
			case entries := <-updates:
				c.SSEvent("bitacora", entries)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}

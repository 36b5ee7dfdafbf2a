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

// qrImageMaxBytes caps uploaded scan photos. Phone camera frames compress
// well under this.
const qrImageMaxBytes = 8 << 20

type scanRequest struct {
	Code string `json:"code"`
}

// Scan resolves a scanned QR to its ticket. Accepts either a JSON body with
// the decoded code or a multipart upload of the raw image under "image".
func Scan(t *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.UserFromContext(c)

		code, ok := scanCode(c)
		if !ok {
			return
		}

		found, err := t.Scan(c.Request.Context(), actor, code)
		if err != nil {
			serviceError(c, err)
			return
		}
		if found == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("no ticket matches this code"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(found, ""))
	}
}

// scanCode extracts the secure code from the request, decoding the QR image
// when one was uploaded instead. Writes the error response itself on failure.
func scanCode(c *gin.Context) (string, bool) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("multipart scan requires an \"image\" file"))
			return "", false
		}
		defer file.Close()
		if header.Size > qrImageMaxBytes {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("image too large"))
			return "", false
		}

		code, err := qr.Decode(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("could not decode a QR code from the image"))
			return "", false
		}
		return code, true
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
		return "", false
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("code is required"))
		return "", false
	}
	return code, true
}

package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketry/pkg/apperrors"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps a typed error to its HTTP status and renders the envelope.
func RespondError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		code = http.StatusBadRequest
	case apperrors.KindNotFound:
		code = http.StatusNotFound
	case apperrors.KindConflict:
		code = http.StatusConflict
	case apperrors.KindPersistence:
		code = http.StatusInternalServerError
	}
	RespondJSON(c, "error", code, apperrors.MessageOf(err), nil, nil)
}

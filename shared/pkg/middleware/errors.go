// shared/pkg/middleware/errors.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

// StatusFromError maps the domain error taxonomy onto HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as JSON. Server errors are logged and their
// details withheld from the client.
func RespondError(c *gin.Context, log *zap.Logger, err error, msg string) {
	status := StatusFromError(err)
	if status >= http.StatusInternalServerError {
		log.Error(msg, zap.Error(err), zap.String("request_id", c.GetString("request_id")))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

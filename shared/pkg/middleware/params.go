// shared/pkg/middleware/params.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

const DateLayout = "2006-01-02"

// QueryDate parses an optional YYYY-MM-DD query parameter. A missing
// parameter yields the zero time.
func QueryDate(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, domain.Invalid("%s must be formatted as %s", key, DateLayout)
	}
	return t, nil
}

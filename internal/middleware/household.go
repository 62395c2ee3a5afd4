package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/session"
)

// Request headers carrying the household context.
const (
	HouseholdHeader = "X-Household-ID"
	UserHeader      = "X-User-ID"
)

// Context keys set by HouseholdContext.
const (
	HouseholdIDKey = "householdID"
	OwnerRefKey    = "ownerRef"
)

// HouseholdContext returns a Gin middleware that reads the household id and
// the optional user id from the request headers. Requests without a
// household are rejected with HOUSEHOLD_REQUIRED.
func HouseholdContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Session{
			HouseholdID: strings.TrimSpace(c.GetHeader(HouseholdHeader)),
			UserID:      strings.TrimSpace(c.GetHeader(UserHeader)),
		}
		if err := sess.Require(); err != nil {
			Abort(c, apperrors.ErrHouseholdRequired)
			return
		}

		c.Set(HouseholdIDKey, sess.HouseholdID)
		c.Set(OwnerRefKey, sess.Owner())
		c.Next()
	}
}

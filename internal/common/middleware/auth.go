package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"election-tool-backend/internal/common/errors"
)

// Context keys for identity fields forwarded by the authentication gateway.
// Session issuance and verification live outside this service; the gateway
// strips any client-supplied copies of these headers before proxying.
const (
	UserIDCtxParam      = "user_id"
	UserCountryCtxParam = "user_country"
	UserCityCtxParam    = "user_city"

	headerUserID      = "X-User-ID"
	headerUserCountry = "X-User-Country"
	headerUserCity    = "X-User-City"
)

// Identity extracts the verified user identity from gateway headers and
// stores it in the request context. Requests without an identity pass
// through; RequireAuth gates the routes that need one.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(headerUserID); raw != "" {
			if userID, err := strconv.ParseInt(raw, 10, 64); err == nil && userID > 0 {
				c.Set(UserIDCtxParam, userID)
				c.Set(UserCountryCtxParam, c.GetHeader(headerUserCountry))
				c.Set(UserCityCtxParam, c.GetHeader(headerUserCity))
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests that carry no verified identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(UserIDCtxParam); !exists {
			AbortWithError(c, errors.NewUnauthorizedError("verified identity required"))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or 0 when the request is
// anonymous.
func UserID(c *gin.Context) int64 {
	if v, exists := c.Get(UserIDCtxParam); exists {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// UserCountry returns the ISO-3166 alpha-2 country forwarded by the gateway.
func UserCountry(c *gin.Context) string {
	if v, exists := c.Get(UserCountryCtxParam); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// UserCity returns the city hint forwarded by the gateway, if any.
func UserCity(c *gin.Context) string {
	if v, exists := c.Get(UserCityCtxParam); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

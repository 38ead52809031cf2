package middleware

import (
	"net/http"

	portalapp "github.com/fieldops/backend/internal/application/portal"
	"github.com/fieldops/backend/internal/domain/portal"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PortalSessionKey is the gin context key for the portal session
const PortalSessionKey = "portal_session"

// PortalAuth authenticates portal requests via the session cookie and
// stores the resolved session in the request context
func PortalAuth(portalService *portalapp.PortalService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			abortPortalUnauthorized(c)
			return
		}

		session, err := portalService.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortPortalUnauthorized(c)
			return
		}

		c.Set(PortalSessionKey, session)
		c.Next()
	}
}

// GetPortalSession returns the session stored by PortalAuth
func GetPortalSession(c *gin.Context) (*portal.Session, bool) {
	v, ok := c.Get(PortalSessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*portal.Session)
	return session, ok
}

func abortPortalUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized, "Portal session is invalid or expired", GetRequestID(c)))
}

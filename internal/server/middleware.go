package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/homestead/internal/audit/domain"
	"github.com/smallbiznis/homestead/internal/auditcontext"
	authdomain "github.com/smallbiznis/homestead/internal/auth/domain"
	obscontext "github.com/smallbiznis/homestead/internal/observability/context"
)

const contextIdentityKey = "identity"

// AuthRequired verifies the hosted auth provider's access token from the
// Authorization header or the session cookie.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := s.accessToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = auditcontext.WithActor(ctx, string(auditdomain.ActorTypeUser), identity.Subject, identity.DisplayName())
		ctx = obscontext.WithActor(ctx, string(auditdomain.ActorTypeUser), identity.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextIdentityKey, identity)
		c.Next()
	}
}

func (s *Server) accessToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}

	name := strings.TrimSpace(s.cfg.Auth.CookieName)
	if name == "" {
		return ""
	}
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie)
}

func identityFromContext(c *gin.Context) (authdomain.Identity, bool) {
	value, ok := c.Get(contextIdentityKey)
	if !ok {
		return authdomain.Identity{}, false
	}
	identity, ok := value.(authdomain.Identity)
	if !ok || identity.Subject == "" {
		return authdomain.Identity{}, false
	}
	return identity, true
}

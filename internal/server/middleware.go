package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const (
	contextUserIDKey    = "user_id"
	contextUserEmailKey = "user_email"
)

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired rejects requests without a valid bearer token.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.issuer.Validate(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, claims.ID)
		c.Set(contextUserEmailKey, claims.Email)
		c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present but lets
// anonymous requests through.
func (s *Server) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := s.issuer.Validate(raw); err == nil {
				c.Set(contextUserIDKey, claims.ID)
				c.Set(contextUserEmailKey, claims.Email)
			}
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) (snowflake.ID, bool) {
	raw, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0, false
	}
	str, ok := raw.(string)
	if !ok {
		return 0, false
	}
	id, err := snowflake.ParseString(str)
	if err != nil {
		return 0, false
	}
	return id, true
}

// clientIP honors the first X-Forwarded-For hop, like the legacy deployment
// behind its proxy.
func clientIP(c *gin.Context) string {
	if fwd := strings.TrimSpace(c.GetHeader("X-Forwarded-For")); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found {
			return strings.TrimSpace(first)
		}
		return fwd
	}
	return c.ClientIP()
}

// callerIdentity keys the quota ledger: the account for signed-in users,
// the client address otherwise.
func (s *Server) callerIdentity(c *gin.Context) (identity string, unlimited bool) {
	if id, ok := currentUserID(c); ok {
		identity = "user:" + id.String()
		if premium, cached := s.premium.GetPremium(id); cached {
			return identity, premium
		}
		if user, err := s.authRepo.FindByID(c.Request.Context(), id); err == nil {
			unlimited = user.IsPremium
			s.premium.SetPremium(id, user.IsPremium)
		}
		return identity, unlimited
	}
	return "ip:" + clientIP(c), false
}

package middleware

import (
	"strings"

	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	actorKey   = "actor"
	accountKey = "account"
)

// bearerToken reads the access token from the Authorization header. Cookies are
// never consulted: the API keeps no cookie session, so it needs no CSRF token.
func bearerToken(c *gin.Context) string {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate resolves the caller when a token is present. Anonymous requests
// pass through; a present but invalid token is rejected with 401.
func Authenticate(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		account, err := authUC.Authenticate(c.Request.Context(), token)
		if err != nil {
			if apperror.Is(err, apperror.KindAuth) {
				security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
					Event:     security.EventUnauthorizedAccess,
					IP:        c.ClientIP(),
					UserAgent: c.GetHeader("User-Agent"),
					RequestID: c.GetString(response.RequestIDKey),
				})
			}
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(accountKey, account)
		c.Set(actorKey, domain.Actor{ID: account.ID, Role: account.Role})
		c.Next()
	}
}

// RequireAuth rejects anonymous callers. It must run after Authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Authenticated() {
			c.Error(apperror.Unauthorized("Authentication credentials were not provided"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFrom returns the caller, or the anonymous actor.
func ActorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(domain.Actor); ok {
			return actor
		}
	}
	return domain.Actor{}
}

// AccountFrom returns the authenticated account or nil.
func AccountFrom(c *gin.Context) *domain.Account {
	if v, ok := c.Get(accountKey); ok {
		account, _ := v.(*domain.Account)
		return account
	}
	return nil
}

// MetaFrom collects the client facts used for audit logging and login throttling.
func MetaFrom(c *gin.Context) domain.RequestMeta {
	return domain.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(response.RequestIDKey),
	}
}

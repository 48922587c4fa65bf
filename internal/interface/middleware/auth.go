package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skycastlabs/user-service/internal/identity"
	"github.com/skycastlabs/user-service/pkg/response"
)

const CtxSubjectKey = "userID"

// Auth is the authorization gate: it resolves the bearer credential from the
// Authorization header through the identity provider and injects the subject
// identifier into the Gin context. Resolving the token is the only path to a
// subject identifier; caller-supplied identifier headers are never trusted.
func Auth(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		subject, err := provider.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}
		c.Set(CtxSubjectKey, subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

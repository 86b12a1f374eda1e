package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"todoboard/internal/adapter/http/helper"
	"todoboard/internal/core/domain"
	"todoboard/internal/core/port"
)

// CurrentUserKey is where the gateway leaves the verified token payload for
// downstream handlers.
const CurrentUserKey = "currentUser"

type payloadContextKey struct{}

// AuthGateway is the single admission checkpoint for protected routes.
// The failure ladder is fixed: missing header, malformed scheme, then any
// verification or lookup failure collapses to "Access Denied".
func AuthGateway(users port.UserRepository, tokens port.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		if header == "" {
			helper.SendUnauthorized(c, "Missing Token")
			c.Abort()
			return
		}

		parts := strings.Split(strings.TrimSpace(header), " ")

		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			helper.SendUnauthorized(c, "Invalid Token Format")
			c.Abort()
			return
		}

		payload, err := tokens.Verify(parts[1])

		if err != nil {
			helper.SendUnauthorized(c, "Access Denied")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), payload.ID)

		if err != nil {
			helper.SendUnauthorized(c, "Access Denied")
			c.Abort()
			return
		}

		// Stale token version means a logout happened after issuance.
		if !user.HasValidTokenVersion(payload) {
			helper.SendUnauthorized(c, "Access Denied")
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, payload)
		c.Set("x-user-id", payload.ID)

		ctx := context.WithValue(c.Request.Context(), payloadContextKey{}, payload)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CurrentUser returns the payload the gateway attached, or false on public
// routes.
func CurrentUser(c *gin.Context) (domain.TokenPayload, bool) {
	value, exists := c.Get(CurrentUserKey)

	if !exists {
		return domain.TokenPayload{}, false
	}

	payload, ok := value.(domain.TokenPayload)

	return payload, ok
}

// PayloadFromContext recovers the payload from a plain context, for code
// below the gin layer.
func PayloadFromContext(ctx context.Context) (domain.TokenPayload, bool) {
	payload, ok := ctx.Value(payloadContextKey{}).(domain.TokenPayload)
	return payload, ok
}

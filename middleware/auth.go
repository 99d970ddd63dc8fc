package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/commune-net/commune/services"
	"github.com/commune-net/commune/utils"
)

// ContextIdentityKey is the key used to store the resolved caller identity in
// the Gin context.
const ContextIdentityKey = "identity"

// RequireIdentity ensures the request carries a valid JWT and stores the
// resolved identity for handlers.
func RequireIdentity() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ident, errCode, msg := resolveIdentity(ctx)
		if msg != "" {
			utils.Error(ctx, http.StatusUnauthorized, errCode, msg)
			ctx.Abort()
			return
		}
		ctx.Set(ContextIdentityKey, ident)
		ctx.Next()
	}
}

// WithIdentity resolves the caller identity when a valid token is present but
// lets the request through anonymously otherwise. Used on public reads.
func WithIdentity() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ident, _, msg := resolveIdentity(ctx); msg == "" {
			ctx.Set(ContextIdentityKey, ident)
		}
		ctx.Next()
	}
}

// IdentityFrom returns the identity stored by the auth middleware, or
// Anonymous when none was resolved.
func IdentityFrom(ctx *gin.Context) services.Identity {
	if v, ok := ctx.Get(ContextIdentityKey); ok {
		if ident, ok := v.(services.Identity); ok {
			return ident
		}
	}
	return services.Anonymous
}

func resolveIdentity(ctx *gin.Context) (services.Identity, int, string) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return services.Anonymous, 40101, "authorization header missing"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return services.Anonymous, 40102, "invalid authorization header format"
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return services.Anonymous, 40103, "empty bearer token"
	}

	if utils.IsTokenBlacklisted(tokenString) {
		return services.Anonymous, 40104, "token revoked"
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return services.Anonymous, 40105, "invalid token"
	}

	return services.Identity{UserID: claims.UserID, Username: claims.Username}, 0, ""
}

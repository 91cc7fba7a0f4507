package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/utils"
)

// ContextUserIDKey is the key used to store the caller id in Gin context.
const ContextUserIDKey = "user_id"

// Identity resolves the caller from an optional bearer token. Requests without
// an Authorization header continue anonymously; a header that is present but
// malformed, expired or badly signed is rejected with 401.
func Identity(secret, issuer string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Empty bearer token")
			return
		}

		claims, err := utils.ParseToken(tokenString, issuer, secret)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			return
		}

		ctx.Set(ContextUserIDKey, claims.Subject)
		ctx.Next()
	}
}

// CallerID returns the authenticated caller id, or "" for anonymous requests.
func CallerID(ctx *gin.Context) string {
	return ctx.GetString(ContextUserIDKey)
}

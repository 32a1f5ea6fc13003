package middleware

import (
	"errors"
	"net/http"
	"strings"

	"creator-ops/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Auth verifies the HS256 bearer token and stores its subject as "user_id".
func Auth(secretKey string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	return func(ctx *gin.Context) {
		raw, ok := bearer(ctx.GetHeader("Authorization"))
		if !ok || secretKey == "" {
			unauthorized(ctx, "Missing or invalid authorization header")
			return
		}

		var claims jwt.RegisteredClaims
		_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		})
		if err != nil {
			logger.GetLogger().WithField("error", err).Debug("Rejected bearer token")
			unauthorized(ctx, message(err))
			return
		}
		if claims.Subject == "" {
			unauthorized(ctx, "Token has no subject")
			return
		}

		ctx.Set("user_id", claims.Subject)
		ctx.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func message(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "That's not even a token"
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Timing is everything"
	default:
		return "Invalid token"
	}
}

func unauthorized(ctx *gin.Context, msg string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

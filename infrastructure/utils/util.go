package utils

import (
	"time"

	"creator-ops/infrastructure/logger"

	"github.com/golang-jwt/jwt/v5"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs a session token for userID. Used by local tooling and tests.
func GenerateToken(userID, secretKey string, ttl time.Duration) (string, error) {
	now := GetCurrentTime()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

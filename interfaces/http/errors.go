package http

import (
	"errors"
	"fmt"
	"net/http"

	"creator-ops/domain/model"
	"creator-ops/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusOf maps the domain error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	var pe *model.ProviderError
	var ge *model.GenerationError
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNotConnected),
		errors.Is(err, model.ErrNoRefreshToken),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrUnknownProvider):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &pe), errors.As(err, &ge):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(ctx *gin.Context, err error) {
	status := statusOf(err)
	entry := logger.GetLogger().WithField("path", ctx.FullPath()).WithField("user_id", ctx.GetString("user_id")).WithField("error", err)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

// userID returns the authenticated user or writes a 401.
func userID(ctx *gin.Context) (string, bool) {
	id := ctx.GetString("user_id")
	if id == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": model.ErrUnauthenticated.Error()})
		return "", false
	}
	return id, true
}

func provider(ctx *gin.Context) (model.Provider, bool) {
	p, err := model.ParseProvider(ctx.Param("provider"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error() + ": " + ctx.Param("provider")})
		return "", false
	}
	return p, true
}

// pathID returns a UUID path parameter; anything else is reported as not found.
func pathID(ctx *gin.Context, name string) (string, bool) {
	raw := ctx.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(ctx, fmt.Errorf("%s %q: %w", name, raw, model.ErrNotFound))
		return "", false
	}
	return id.String(), true
}

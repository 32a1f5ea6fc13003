package http

import (
	"context"
	"net/http"

	"creator-ops/usecase"

	"github.com/gin-gonic/gin"
)

type ISyncHandler interface {
	SyncYouTube(ctx *gin.Context)
	SyncGmail(ctx *gin.Context)
	Events(ctx *gin.Context)
}

// SyncHandler triggers provider syncs and streams their progress.
type SyncHandler struct {
	youtubeSync usecase.IYouTubeSyncUsecase
	gmailSync   usecase.IGmailSyncUsecase
	events      gin.HandlerFunc
}

func NewSyncHandler(youtubeSync usecase.IYouTubeSyncUsecase, gmailSync usecase.IGmailSyncUsecase, events gin.HandlerFunc) ISyncHandler {
	return &SyncHandler{youtubeSync: youtubeSync, gmailSync: gmailSync, events: events}
}

// SyncYouTube handles POST /api/youtube/sync
func (h *SyncHandler) SyncYouTube(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	res, err := h.youtubeSync.Sync(detached(ctx), user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

// SyncGmail handles POST /api/gmail/sync
func (h *SyncHandler) SyncGmail(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	res, err := h.gmailSync.Sync(detached(ctx), user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

// detached keeps a sync running after the client stops waiting for it.
func detached(ctx *gin.Context) context.Context {
	return context.WithoutCancel(ctx.Request.Context())
}

// Events handles GET /api/sync/events
func (h *SyncHandler) Events(ctx *gin.Context) {
	if h.events == nil {
		ctx.JSON(http.StatusNotImplemented, gin.H{"error": "event stream not configured"})
		return
	}
	h.events(ctx)
}

package http

import (
	"net/http"

	"creator-ops/domain/dto"
	"creator-ops/usecase"

	"github.com/gin-gonic/gin"
)

type IVideoHandler interface {
	Analyze(ctx *gin.Context)
}

type VideoHandler struct {
	analysisUsecase usecase.IAnalysisUsecase
}

func NewVideoHandler(analysisUsecase usecase.IAnalysisUsecase) IVideoHandler {
	return &VideoHandler{analysisUsecase: analysisUsecase}
}

// Analyze handles POST /api/videos/:videoId/analyze
func (h *VideoHandler) Analyze(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	videoID, ok := pathID(ctx, "videoId")
	if !ok {
		return
	}
	var req dto.AnalyzeVideoRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	res, err := h.analysisUsecase.Analyze(ctx.Request.Context(), user, videoID, req.Outputs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

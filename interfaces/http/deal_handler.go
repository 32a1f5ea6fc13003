package http

import (
	"net/http"

	"creator-ops/domain/dto"
	"creator-ops/usecase"

	"github.com/gin-gonic/gin"
)

type IDealHandler interface {
	List(ctx *gin.Context)
	Create(ctx *gin.Context)
	UpdateStatus(ctx *gin.Context)
	AddMessage(ctx *gin.Context)
}

type DealHandler struct {
	dealUsecase usecase.IDealUsecase
}

func NewDealHandler(dealUsecase usecase.IDealUsecase) IDealHandler {
	return &DealHandler{dealUsecase: dealUsecase}
}

// List handles GET /api/deals
func (h *DealHandler) List(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	deals, err := h.dealUsecase.List(ctx.Request.Context(), user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": deals})
}

// Create handles POST /api/deals
func (h *DealHandler) Create(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	var req dto.CreateDealRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "brand_name is required"})
		return
	}
	deal, err := h.dealUsecase.CreateManual(ctx.Request.Context(), user, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, deal)
}

// UpdateStatus handles PATCH /api/deals/:dealId/status
func (h *DealHandler) UpdateStatus(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	dealID, ok := pathID(ctx, "dealId")
	if !ok {
		return
	}
	var req dto.UpdateDealStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if err := h.dealUsecase.UpdateStatus(ctx.Request.Context(), user, dealID, req.Status); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}

// AddMessage handles POST /api/deals/:dealId/messages
func (h *DealHandler) AddMessage(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	dealID, ok := pathID(ctx, "dealId")
	if !ok {
		return
	}
	var req dto.AddDealMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "content and sender are required"})
		return
	}
	msg, err := h.dealUsecase.AddMessage(ctx.Request.Context(), user, dealID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, msg)
}

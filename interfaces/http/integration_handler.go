package http

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"creator-ops/domain/dto"
	"creator-ops/usecase"

	"github.com/gin-gonic/gin"
)

// IIntegrationHandler serves the OAuth connect flow and integration settings.
type IIntegrationHandler interface {
	Start(ctx *gin.Context)
	Callback(ctx *gin.Context)
	Status(ctx *gin.Context)
	UpdateKeywords(ctx *gin.Context)
	Disconnect(ctx *gin.Context)
}

type IntegrationHandler struct {
	oauthUsecase usecase.IOAuthUsecase
}

func NewIntegrationHandler(oauthUsecase usecase.IOAuthUsecase) IIntegrationHandler {
	return &IntegrationHandler{oauthUsecase: oauthUsecase}
}

// Start handles POST /api/integrations/:provider/oauth/start
func (h *IntegrationHandler) Start(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	p, ok := provider(ctx)
	if !ok {
		return
	}
	var req dto.StartOAuthRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	authURL, err := h.oauthUsecase.Start(ctx.Request.Context(), user, p, req.Redirect)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.StartOAuthResponse{URL: authURL})
}

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html><body>
<script>
  (function () {
    var msg = {type: {{.MessageType}}{{if .Error}}, error: {{.Error}}{{end}}};
    if (window.opener) {
      window.opener.postMessage(msg, {{.TargetOrigin}});
      window.close();
    } else {
      window.location.href = {{.RedirectURL}};
    }
  })();
</script>
<p>{{if .Error}}Authentication failed: {{.Error}}.{{else}}Connected successfully!{{end}} You can close this window.</p>
</body></html>`))

type callbackView struct {
	MessageType  string
	Error        string
	TargetOrigin string
	RedirectURL  string
}

// Callback handles GET /auth/:provider/callback. It always answers with the bridge page.
func (h *IntegrationHandler) Callback(ctx *gin.Context) {
	p, ok := provider(ctx)
	if !ok {
		return
	}
	res := h.oauthUsecase.Callback(ctx.Request.Context(), p, ctx.Query("code"), ctx.Query("state"), ctx.Query("error"))

	view := callbackView{
		MessageType:  string(p) + "-oauth-success",
		TargetOrigin: targetOrigin(res.RedirectURL),
		RedirectURL:  res.RedirectURL,
	}
	if !res.Connected {
		view.MessageType = string(p) + "-oauth-error"
		view.Error = res.Error
	}
	ctx.Status(http.StatusOK)
	ctx.Header("Content-Type", "text/html; charset=utf-8")
	ctx.Header("Cache-Control", "no-store")
	if err := callbackPage.Execute(ctx.Writer, view); err != nil {
		respondError(ctx, err)
	}
}

func targetOrigin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "*"
	}
	return u.Scheme + "://" + u.Host
}

// Status handles GET /api/integrations/:provider
func (h *IntegrationHandler) Status(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	p, ok := provider(ctx)
	if !ok {
		return
	}
	status, err := h.oauthUsecase.Status(ctx.Request.Context(), user, p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}

// UpdateKeywords handles PUT /api/integrations/:provider/keywords
func (h *IntegrationHandler) UpdateKeywords(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	p, ok := provider(ctx)
	if !ok {
		return
	}
	var req dto.UpdateKeywordsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "keywords must be a list of strings"})
		return
	}
	keywords, err := h.oauthUsecase.UpdateFilterKeywords(ctx.Request.Context(), user, p, req.Keywords)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

// Disconnect handles DELETE /api/integrations/:provider?deleteData=true
func (h *IntegrationHandler) Disconnect(ctx *gin.Context) {
	user, ok := userID(ctx)
	if !ok {
		return
	}
	p, ok := provider(ctx)
	if !ok {
		return
	}
	deleteData, _ := strconv.ParseBool(ctx.DefaultQuery("deleteData", "false"))
	if err := h.oauthUsecase.Disconnect(ctx.Request.Context(), user, p, deleteData); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "provider": p, "dataDeleted": deleteData})
}

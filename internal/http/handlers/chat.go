package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/dashgen-backend/internal/http/response"
	"github.com/yungbote/dashgen-backend/internal/modules/dashboard"
)

type ChatHandler struct {
	svc DashboardService
}

func NewChatHandler(svc DashboardService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type chatReq struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

// POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.svc.Chat(c.Request.Context(), dashboard.ChatInput{Prompt: req.Prompt, Model: req.Model})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "response": out.Response, "model": out.Model})
}

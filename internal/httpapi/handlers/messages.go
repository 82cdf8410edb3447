package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Anshuman71/micros/internal/common"
	"github.com/Anshuman71/micros/internal/messages"
)

type saveMessagesReq struct {
	ChatID   string                   `json:"chatId"`
	Messages []messages.StoredMessage `json:"messages"`
}

func (h *Handler) SaveMessages(c *gin.Context) {
	var req saveMessagesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Bad request", "invalid json")
		return
	}
	if req.ChatID == "" {
		common.Fail(c, http.StatusBadRequest, "Bad request", "chatId is required")
		return
	}

	if err := h.Messages.Save(c.Request.Context(), req.ChatID, req.Messages); err != nil {
		h.Log.Error("save messages failed", "chat_id", req.ChatID, "error", err)
		common.Fail(c, http.StatusInternalServerError, "Internal server error", "Failed to save messages")
		return
	}

	common.OK(c, gin.H{"success": true})
}

func (h *Handler) LoadMessages(c *gin.Context) {
	chatID := c.Query("chatId")
	if chatID == "" {
		common.Fail(c, http.StatusBadRequest, "Bad request", "chatId query parameter is required")
		return
	}

	msgs, err := h.Messages.Load(c.Request.Context(), chatID)
	if err != nil {
		h.Log.Error("load messages failed", "chat_id", chatID, "error", err)
		common.Fail(c, http.StatusInternalServerError, "Internal server error", "Failed to load messages")
		return
	}

	common.OK(c, gin.H{"messages": msgs})
}

func (h *Handler) ClearMessages(c *gin.Context) {
	chatID := c.Query("chatId")
	if chatID == "" {
		common.Fail(c, http.StatusBadRequest, "Bad request", "chatId query parameter is required")
		return
	}

	if err := h.Messages.Clear(c.Request.Context(), chatID); err != nil {
		h.Log.Error("clear messages failed", "chat_id", chatID, "error", err)
		common.Fail(c, http.StatusInternalServerError, "Internal server error", "Failed to clear messages")
		return
	}

	common.OK(c, gin.H{"success": true})
}

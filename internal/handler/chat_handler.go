package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"polisure/internal/service"
)

// ChatHandler handles the policy Q&A endpoint.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Ask handles POST /api/v1/chat.
func (h *ChatHandler) Ask(c *gin.Context) {
	var input service.ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	answer, err := h.chatService.Ask(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, answer)
}

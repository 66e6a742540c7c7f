package api

import (
	"fmt"
	"net/http"

	"fittrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	history, err := h.chatService.History(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to load chat history.")
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	history, err := h.chatService.Send(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondWithError(c, err, "Failed to send message.")
		return
	}
	c.JSON(http.StatusOK, history)
}

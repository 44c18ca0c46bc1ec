package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/service"
)

// ChatHandler handles HTTP requests for the ride chat.
type ChatHandler struct {
	rideService *service.RideService
	chatService *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(rideService *service.RideService, chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{rideService: rideService, chatService: chatService}
}

// SendMessageRequest is the HTTP request body for a chat message.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessageResponse is the HTTP response after sending a message.
type SendMessageResponse struct {
	Message *domain.ChatMessage `json:"message"`
	Chat    service.ChatView    `json:"chat"`
}

// GetChat handles GET /v1/chat
func (h *ChatHandler) GetChat(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.chatService.View())
}

// Open handles POST /v1/chat/open
func (h *ChatHandler) Open(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.chatService.Open())
}

// Close handles POST /v1/chat/close
func (h *ChatHandler) Close(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.chatService.Close())
}

// Send handles POST /v1/chat/messages
func (h *ChatHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	msg, err := h.rideService.SendChat(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, SendMessageResponse{
		Message: msg,
		Chat:    h.chatService.View(),
	})
}

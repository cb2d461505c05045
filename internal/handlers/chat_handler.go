package handlers

import (
	"net/http"

	"anamny_backend/internal/logger"
	"anamny_backend/internal/middleware"
	"anamny_backend/internal/services"
	"anamny_backend/internal/services/dto"
	"anamny_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
	authService services.AuthService
}

func NewChatHandler(v *validator.Validator, chatService services.ChatService, authService services.AuthService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: NewBaseHandler(v),
		chatService: chatService,
		authService: authService,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chat := rg.Group("/chat")
	chat.Use(middleware.AuthMiddleware(h.authService))
	{
		chat.POST("/message", h.SendMessage)
		chat.GET("/sessions", h.ListSessions)
		chat.POST("/sessions", h.CreateSession)
		chat.GET("/sessions/:session_id", h.GetSessionHistory)
		chat.DELETE("/sessions/:session_id", h.DeleteSession)
	}
}

// SendMessage отправляет сообщение AI-ассистенту и возвращает обе стороны диалога
func (h *ChatHandler) SendMessage(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.ChatRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	resp, err := h.chatService.SendMessage(c.Request.Context(), db, user.ID, req.Message, req.SessionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	logger.CtxInfo(c.Request.Context(), "Chat message processed",
		"user_id", user.ID,
		"session_id", resp.Session.ID,
	)
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	db := h.GetDB(c)

	resp, err := h.chatService.ListSessions(db, user.ID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	resp, err := h.chatService.CreateSession(db, user.ID, req.Title)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ChatHandler) GetSessionHistory(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	db := h.GetDB(c)

	resp, err := h.chatService.GetSessionHistory(db, sessionID, user.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteSession мягко удаляет сессию: история остаётся в БД
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	db := h.GetDB(c)

	if err := h.chatService.DeleteSession(db, sessionID, user.ID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	logger.CtxInfo(c.Request.Context(), "Chat session deleted",
		"user_id", user.ID,
		"session_id", sessionID,
	)
	c.JSON(http.StatusOK, gin.H{
		"message": "Chat session deleted successfully",
	})
}

package dto

import (
	"time"

	"anamny_backend/internal/models"
)

// ChatRequest - отправка сообщения ассистенту.
// Если SessionID не задан, создается новая сессия.
type ChatRequest struct {
	Message   string  `json:"message" validate:"required"`
	SessionID *string `json:"session_id,omitempty"`
}

// CreateSessionRequest - создание пустой сессии
type CreateSessionRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,max=255"`
}

// ChatMessageResponse - одно сообщение диалога
type ChatMessageResponse struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	Content        string    `json:"content"`
	IsUserMessage  bool      `json:"is_user_message"`
	AIModel        *string   `json:"ai_model,omitempty"`
	ProcessingTime *int      `json:"processing_time,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChatSessionResponse - сессия, опционально с количеством сообщений
type ChatSessionResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        *string   `json:"title,omitempty"`
	IsActive     bool      `json:"is_active"`
	MessageCount *int64    `json:"message_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChatResponse - результат обмена: сообщение пользователя, ответ AI и сессия
type ChatResponse struct {
	UserMessage *ChatMessageResponse `json:"user_message"`
	AIMessage   *ChatMessageResponse `json:"ai_message"`
	Session     *ChatSessionResponse `json:"session"`
}

// SessionListResponse - список сессий пользователя
type SessionListResponse struct {
	Sessions []*ChatSessionResponse `json:"sessions"`
	Total    int64                  `json:"total"`
}

// SessionHistoryResponse - сессия со всеми сообщениями
type SessionHistoryResponse struct {
	Session  *ChatSessionResponse   `json:"session"`
	Messages []*ChatMessageResponse `json:"messages"`
}

// NewChatMessageResponse строит ответ из модели сообщения
func NewChatMessageResponse(m *models.ChatMessage) *ChatMessageResponse {
	return &ChatMessageResponse{
		ID:             m.ID,
		SessionID:      m.SessionID,
		Content:        m.Content,
		IsUserMessage:  m.IsUserMessage,
		AIModel:        m.AIModel,
		ProcessingTime: m.ProcessingTime,
		CreatedAt:      m.CreatedAt,
	}
}

// NewChatSessionResponse строит ответ из модели сессии
func NewChatSessionResponse(s *models.ChatSession) *ChatSessionResponse {
	return &ChatSessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Title:     s.Title,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

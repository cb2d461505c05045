package services

import (
	"context"
	"strings"
	"time"

	"anamny_backend/internal/ai"
	"anamny_backend/internal/logger"
	"anamny_backend/internal/models"
	"anamny_backend/internal/repositories"
	"anamny_backend/internal/services/dto"
	"anamny_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	// sessionTitleLimit - сколько символов первого сообщения попадает в заголовок сессии
	sessionTitleLimit = 50

	// fallbackReply возвращается пользователю при любой ошибке провайдера
	fallbackReply = "I apologize, but I'm experiencing technical difficulties right now. Please try again in a moment."

	// errorModelTag помечает fallback-сообщения вместо идентификатора модели
	errorModelTag = "error"
)

type ChatService interface {
	SendMessage(ctx context.Context, db *gorm.DB, userID, message string, sessionID *string) (*dto.ChatResponse, error)
	ListSessions(db *gorm.DB, userID string, page, pageSize int) (*dto.SessionListResponse, error)
	GetSessionHistory(db *gorm.DB, sessionID, userID string) (*dto.SessionHistoryResponse, error)
	CreateSession(db *gorm.DB, userID string, title *string) (*dto.ChatSessionResponse, error)
	DeleteSession(db *gorm.DB, sessionID, userID string) error
}

type ChatServiceImpl struct {
	chatRepo repositories.ChatRepository
	provider ai.Provider
}

func NewChatService(chatRepo repositories.ChatRepository, provider ai.Provider) ChatService {
	return &ChatServiceImpl{
		chatRepo: chatRepo,
		provider: provider,
	}
}

// SendMessage - основной обмен: сообщение пользователя, один вызов провайдера, ответ.
// Ошибка провайдера не отдается наружу: вместо нее сохраняется fallback-сообщение.
func (s *ChatServiceImpl) SendMessage(ctx context.Context, db *gorm.DB, userID, message string, sessionID *string) (*dto.ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	session, err := s.resolveSession(db, userID, message, sessionID)
	if err != nil {
		return nil, err
	}

	userMessage := &models.ChatMessage{
		SessionID:     session.ID,
		Content:       message,
		IsUserMessage: true,
	}
	if err := s.chatRepo.CreateMessage(db, userMessage); err != nil {
		return nil, apperrors.InternalError(err)
	}

	aiMessage, err := s.generateReply(ctx, db, session, userID, message)
	if err != nil {
		return nil, err
	}

	return &dto.ChatResponse{
		UserMessage: dto.NewChatMessageResponse(userMessage),
		AIMessage:   dto.NewChatMessageResponse(aiMessage),
		Session:     dto.NewChatSessionResponse(session),
	}, nil
}

// ListSessions - активные сессии пользователя, недавние сверху, с количеством сообщений
func (s *ChatServiceImpl) ListSessions(db *gorm.DB, userID string, page, pageSize int) (*dto.SessionListResponse, error) {
	offset := (page - 1) * pageSize

	sessions, err := s.chatRepo.FindUserSessions(db, userID, pageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	total, err := s.chatRepo.CountUserSessions(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ChatSessionResponse, 0, len(sessions))
	for i := range sessions {
		resp := dto.NewChatSessionResponse(&sessions[i])

		count, err := s.chatRepo.CountSessionMessages(db, sessions[i].ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		resp.MessageCount = &count

		responses = append(responses, resp)
	}

	return &dto.SessionListResponse{
		Sessions: responses,
		Total:    total,
	}, nil
}

// GetSessionHistory - сессия и все ее сообщения в хронологическом порядке
func (s *ChatServiceImpl) GetSessionHistory(db *gorm.DB, sessionID, userID string) (*dto.SessionHistoryResponse, error) {
	session, err := s.chatRepo.FindSession(db, sessionID, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	messages, err := s.chatRepo.FindSessionMessages(db, session.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ChatMessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, dto.NewChatMessageResponse(&messages[i]))
	}

	return &dto.SessionHistoryResponse{
		Session:  dto.NewChatSessionResponse(session),
		Messages: responses,
	}, nil
}

// CreateSession - новая пустая активная сессия
func (s *ChatServiceImpl) CreateSession(db *gorm.DB, userID string, title *string) (*dto.ChatSessionResponse, error) {
	session := &models.ChatSession{
		UserID:   userID,
		Title:    title,
		IsActive: true,
	}

	if err := s.chatRepo.CreateSession(db, session); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewChatSessionResponse(session)
	var zero int64
	resp.MessageCount = &zero
	return resp, nil
}

// DeleteSession - мягкое удаление: сессия скрывается, записи остаются
func (s *ChatServiceImpl) DeleteSession(db *gorm.DB, sessionID, userID string) error {
	if err := s.chatRepo.DeactivateSession(db, sessionID, userID); err != nil {
		if apperrors.Is(err, repositories.ErrSessionNotFound) {
			return apperrors.ErrSessionNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// resolveSession находит сессию пользователя либо создает новую
// с заголовком из первых символов сообщения
func (s *ChatServiceImpl) resolveSession(db *gorm.DB, userID, message string, sessionID *string) (*models.ChatSession, error) {
	if sessionID != nil && *sessionID != "" {
		session, err := s.chatRepo.FindSession(db, *sessionID, userID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrSessionNotFound) {
				return nil, apperrors.ErrSessionNotFound
			}
			return nil, apperrors.InternalError(err)
		}
		return session, nil
	}

	title := deriveTitle(message)
	session := &models.ChatSession{
		UserID:   userID,
		Title:    &title,
		IsActive: true,
	}
	if err := s.chatRepo.CreateSession(db, session); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return session, nil
}

// generateReply делает ровно одну попытку получить ответ провайдера.
// Любая его ошибка превращается в fallback-сообщение с тегом "error".
func (s *ChatServiceImpl) generateReply(ctx context.Context, db *gorm.DB, session *models.ChatSession, userID, message string) (*models.ChatMessage, error) {
	start := time.Now()

	replyText, err := s.provider.GenerateReply(ctx, ai.Request{
		Message:   strings.TrimSpace(message),
		UserID:    userID,
		SessionID: session.ID,
	})
	elapsed := int(time.Since(start).Milliseconds())

	if err != nil {
		logger.CtxWithError(ctx, "AI provider call failed", apperrors.ErrProviderFailure(err),
			"session_id", session.ID,
		)

		aiMessage := &models.ChatMessage{
			SessionID:      session.ID,
			Content:        fallbackReply,
			IsUserMessage:  false,
			AIModel:        strPtr(errorModelTag),
			ProcessingTime: &elapsed,
		}
		if err := s.chatRepo.CreateMessage(db, aiMessage); err != nil {
			return nil, apperrors.InternalError(err)
		}
		return aiMessage, nil
	}

	aiMessage := &models.ChatMessage{
		SessionID:      session.ID,
		Content:        replyText,
		IsUserMessage:  false,
		AIModel:        strPtr(s.provider.Model()),
		ProcessingTime: &elapsed,
	}
	if err := s.chatRepo.CreateMessage(db, aiMessage); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Последняя активность сессии = время ответа AI
	if err := s.chatRepo.TouchSession(db, session.ID, aiMessage.CreatedAt); err != nil {
		return nil, apperrors.InternalError(err)
	}
	session.UpdatedAt = aiMessage.CreatedAt

	return aiMessage, nil
}

// deriveTitle обрезает сообщение до sessionTitleLimit символов (рун, не байт)
func deriveTitle(message string) string {
	runes := []rune(message)
	if len(runes) > sessionTitleLimit {
		return string(runes[:sessionTitleLimit]) + "..."
	}
	return message
}

func strPtr(s string) *string {
	return &s
}

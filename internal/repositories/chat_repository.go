package repositories

import (
	"errors"
	"time"

	"anamny_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("chat session not found")

type ChatRepository interface {
	CreateSession(db *gorm.DB, session *models.ChatSession) error
	// FindSession возвращает активную сессию, принадлежащую userID
	FindSession(db *gorm.DB, sessionID, userID string) (*models.ChatSession, error)
	FindUserSessions(db *gorm.DB, userID string, limit, offset int) ([]models.ChatSession, error)
	CountUserSessions(db *gorm.DB, userID string) (int64, error)
	TouchSession(db *gorm.DB, sessionID string, updatedAt time.Time) error
	DeactivateSession(db *gorm.DB, sessionID, userID string) error

	CreateMessage(db *gorm.DB, message *models.ChatMessage) error
	FindSessionMessages(db *gorm.DB, sessionID string) ([]models.ChatMessage, error)
	CountSessionMessages(db *gorm.DB, sessionID string) (int64, error)
}

type ChatRepositoryImpl struct{}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{}
}

func (r *ChatRepositoryImpl) CreateSession(db *gorm.DB, session *models.ChatSession) error {
	return db.Create(session).Error
}

func (r *ChatRepositoryImpl) FindSession(db *gorm.DB, sessionID, userID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := db.Where("id = ? AND user_id = ? AND is_active = ?", sessionID, userID, true).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *ChatRepositoryImpl) FindUserSessions(db *gorm.DB, userID string, limit, offset int) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&sessions).Error
	return sessions, err
}

func (r *ChatRepositoryImpl) CountUserSessions(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.ChatSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *ChatRepositoryImpl) TouchSession(db *gorm.DB, sessionID string, updatedAt time.Time) error {
	return db.Model(&models.ChatSession{}).Where("id = ?", sessionID).
		Update("updated_at", updatedAt).Error
}

func (r *ChatRepositoryImpl) DeactivateSession(db *gorm.DB, sessionID, userID string) error {
	result := db.Model(&models.ChatSession{}).
		Where("id = ? AND user_id = ? AND is_active = ?", sessionID, userID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *ChatRepositoryImpl) CreateMessage(db *gorm.DB, message *models.ChatMessage) error {
	return db.Create(message).Error
}

func (r *ChatRepositoryImpl) FindSessionMessages(db *gorm.DB, sessionID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *ChatRepositoryImpl) CountSessionMessages(db *gorm.DB, sessionID string) (int64, error) {
	var count int64
	err := db.Model(&models.ChatMessage{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

package repositories

import (
	"errors"
	"time"

	"anamny_backend/internal/models"

	"gorm.io/gorm"
)

var ErrResetTokenNotFound = errors.New("reset token not found")

type ResetTokenRepository interface {
	Create(db *gorm.DB, token *models.PasswordResetToken) error
	// FindValid возвращает токен только если он не использован и не просрочен
	FindValid(db *gorm.DB, token string) (*models.PasswordResetToken, error)
	MarkUsed(db *gorm.DB, tokenID string) error
	// InvalidateForEmail помечает использованными все неиспользованные токены email
	InvalidateForEmail(db *gorm.DB, email string) error
	DeleteExpired(db *gorm.DB) (int64, error)
}

type ResetTokenRepositoryImpl struct{}

func NewResetTokenRepository() ResetTokenRepository {
	return &ResetTokenRepositoryImpl{}
}

func (r *ResetTokenRepositoryImpl) Create(db *gorm.DB, token *models.PasswordResetToken) error {
	return db.Create(token).Error
}

func (r *ResetTokenRepositoryImpl) FindValid(db *gorm.DB, token string) (*models.PasswordResetToken, error) {
	var resetToken models.PasswordResetToken
	err := db.Where("token = ? AND used = ? AND expires_at > ?", token, false, time.Now()).
		First(&resetToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}
	return &resetToken, nil
}

func (r *ResetTokenRepositoryImpl) MarkUsed(db *gorm.DB, tokenID string) error {
	result := db.Model(&models.PasswordResetToken{}).Where("id = ? AND used = ?", tokenID, false).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Токен уже погашен параллельным запросом
		return ErrResetTokenNotFound
	}
	return nil
}

func (r *ResetTokenRepositoryImpl) InvalidateForEmail(db *gorm.DB, email string) error {
	return db.Model(&models.PasswordResetToken{}).
		Where("email = ? AND used = ?", email, false).
		Update("used", true).Error
}

func (r *ResetTokenRepositoryImpl) DeleteExpired(db *gorm.DB) (int64, error) {
	result := db.Where("used = ? OR expires_at < ?", true, time.Now()).
		Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}

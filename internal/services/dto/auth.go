package dto

import (
	"time"

	"anamny_backend/internal/models"
)

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse - ответ с access-токеном
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// PasswordResetRequest - запрос сброса пароля
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm - подтверждение сброса пароля
type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UpdateProfileRequest - частичное обновление профиля.
// Применяются только переданные (не-nil) поля.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Age       *int    `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Gender    *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	BloodType *string `json:"blood_type,omitempty" validate:"omitempty,max=3"`
}

// UserResponse - публичное представление пользователя
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	FullName   *string   `json:"full_name,omitempty"`
	Age        *int      `json:"age,omitempty"`
	Gender     *string   `json:"gender,omitempty"`
	BloodType  *string   `json:"blood_type,omitempty"`
}

// NewUserResponse строит UserResponse из модели
func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Username:   user.Username,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		FullName:   user.FullName,
		Age:        user.Age,
		Gender:     user.Gender,
		BloodType:  user.BloodType,
	}
}

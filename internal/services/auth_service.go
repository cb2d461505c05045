package services

import (
	"time"

	"anamny_backend/internal/auth"
	"anamny_backend/internal/email"
	"anamny_backend/internal/logger"
	"anamny_backend/internal/models"
	"anamny_backend/internal/repositories"
	"anamny_backend/internal/services/dto"
	"anamny_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RequestPasswordReset(db *gorm.DB, email string) error
	ConfirmPasswordReset(db *gorm.DB, token, newPassword string) error
	ResolveCurrentUser(db *gorm.DB, bearerToken string) (*models.User, error)
	UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	resetRepo     repositories.ResetTokenRepository
	tokens        *auth.TokenManager
	emailProvider email.Provider
	resetTokenTTL time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	resetRepo repositories.ResetTokenRepository,
	tokens *auth.TokenManager,
	emailProvider email.Provider,
	resetTokenTTL time.Duration,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		resetRepo:     resetRepo,
		tokens:        tokens,
		emailProvider: emailProvider,
		resetTokenTTL: resetTokenTTL,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsVerified:   false,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrEmailTaken):
			return nil, apperrors.ErrEmailAlreadyExists
		case apperrors.Is(err, repositories.ErrUsernameTaken):
			return nil, apperrors.ErrUsernameAlreadyExists
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	return dto.NewUserResponse(user), nil
}

// Login - аутентификация пользователя по email и паролю
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			// Та же ошибка, что и при неверном пароле
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Generate(user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}

// RequestPasswordReset - запрос сброса пароля.
// Для неизвестного email ничего не делает: ответ наружу одинаковый в обоих случаях.
func (s *AuthServiceImpl) RequestPasswordReset(db *gorm.DB, userEmail string) error {
	user, err := s.userRepo.FindByEmail(db, userEmail)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	// Сначала гасим все ранее выданные неиспользованные токены
	if err := s.resetRepo.InvalidateForEmail(db, user.Email); err != nil {
		return apperrors.InternalError(err)
	}

	token, err := auth.GenerateRandomToken(32)
	if err != nil {
		return apperrors.InternalError(err)
	}

	resetToken := &models.PasswordResetToken{
		Email:     user.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(s.resetTokenTTL),
	}

	if err := s.resetRepo.Create(db, resetToken); err != nil {
		return apperrors.InternalError(err)
	}

	s.sendPasswordResetEmail(user.Email, token)

	return nil
}

// ConfirmPasswordReset - смена пароля по токену.
// Погашение токена и замена хеша выполняются в одной транзакции.
func (s *AuthServiceImpl) ConfirmPasswordReset(db *gorm.DB, token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		resetToken, err := s.resetRepo.FindValid(tx, token)
		if err != nil {
			return err
		}

		user, err := s.userRepo.FindByEmail(tx, resetToken.Email)
		if err != nil {
			return err
		}

		if err := s.userRepo.UpdatePassword(tx, user.ID, hashedPassword); err != nil {
			return err
		}

		return s.resetRepo.MarkUsed(tx, resetToken.ID)
	})

	if err != nil {
		if apperrors.Is(err, repositories.ErrResetTokenNotFound) ||
			apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return apperrors.InternalError(err)
	}

	return nil
}

// ResolveCurrentUser - разбор bearer-токена и загрузка его владельца
func (s *AuthServiceImpl) ResolveCurrentUser(db *gorm.DB, bearerToken string) (*models.User, error) {
	subject, err := s.tokens.Parse(bearerToken)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindByEmail(db, subject)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	return user, nil
}

// UpdateProfile - частичное обновление профиля: трогаем только переданные поля
func (s *AuthServiceImpl) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.FullName != nil {
		user.FullName = req.FullName
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	if req.BloodType != nil {
		user.BloodType = req.BloodType
	}

	if err := s.userRepo.Update(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	return dto.NewUserResponse(user), nil
}

// sendPasswordResetEmail отправляет письмо асинхронно, ошибки только логируются
func (s *AuthServiceImpl) sendPasswordResetEmail(to, token string) {
	if s.emailProvider == nil {
		return
	}

	go func() {
		if err := s.emailProvider.SendPasswordReset(to, token); err != nil {
			logger.WithError(err).Warn("failed to send password reset email")
		}
	}()
}

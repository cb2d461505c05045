package apperrors

import (
	"net/http"
)

/*
Предопределенные доменные ошибки приложения.
Сервисы возвращают их напрямую либо через фабрики ниже.
*/

// --- Auth ---

// ErrEmailAlreadyExists - email уже зарегистрирован.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already registered",
	http.StatusBadRequest,
)

// ErrUsernameAlreadyExists - имя пользователя уже занято.
var ErrUsernameAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Username already taken",
	http.StatusBadRequest,
)

// ErrInvalidCredentials - неверный email или пароль.
// Одна и та же ошибка для неизвестного email и неверного пароля,
// чтобы не раскрывать существование аккаунта.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Incorrect email or password",
	http.StatusUnauthorized,
)

// ErrInvalidResetToken - неверный или просроченный токен сброса пароля.
var ErrInvalidResetToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired reset token",
	http.StatusBadRequest,
)

// ErrUnauthorized - токен отсутствует, не прошел проверку или субъект неизвестен.
var ErrUnauthorized = New(
	CodeUnauthorized,
	"auth",
	"Could not validate credentials",
	http.StatusUnauthorized,
)

// ErrAccountInactive - аккаунт деактивирован.
var ErrAccountInactive = New(
	CodeForbidden,
	"auth",
	"Inactive account",
	http.StatusForbidden,
)

// ErrUserNotFound - пользователь не найден.
var ErrUserNotFound = New(
	CodeNotFound,
	"auth",
	"User not found",
	http.StatusNotFound,
)

// --- Chat ---

// ErrSessionNotFound - сессия не существует, неактивна или принадлежит другому пользователю.
var ErrSessionNotFound = New(
	CodeNotFound,
	"chat",
	"Session not found",
	http.StatusNotFound,
)

// ErrEmptyMessage - пустое сообщение или только пробелы.
var ErrEmptyMessage = New(
	CodeValidationFailed,
	"chat",
	"Message cannot be empty",
	http.StatusBadRequest,
)

// --- Фабрики ---

// ErrProviderFailure - ошибка внешнего AI-провайдера.
// Не отдается клиенту напрямую: сервис чата поглощает ее в fallback-сообщение.
func ErrProviderFailure(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "ai", "AI provider request failed", http.StatusInternalServerError)
}

package ai

import "context"

// Request - один запрос к ассистенту.
// UserID и SessionID - ключи непрерывности диалога для провайдера.
type Request struct {
	Message   string
	UserID    string
	SessionID string
}

// Provider - узкий интерфейс внешнего AI-провайдера.
// Продакшен-реализация - GeminiClient, в тестах подменяется заглушкой.
type Provider interface {
	// GenerateReply выполняет один запрос без ретраев
	GenerateReply(ctx context.Context, req Request) (string, error)

	// Model возвращает идентификатор модели провайдера
	Model() string
}

package services

import "anamny_backend/internal/email"

// ServiceContainer - все сервисы приложения в одном месте
type ServiceContainer struct {
	AuthService  AuthService
	ChatService  ChatService
	EmailService email.Provider
}

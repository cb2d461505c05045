package app

import (
	"context"

	"anamny_backend/internal/ai"
)

// MockEmailProvider используется для тестов и локальной разработки.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(to, subject, body string) error      { return nil }
func (m *MockEmailProvider) SendPasswordReset(to, token string) error { return nil }
func (m *MockEmailProvider) Validate() error                          { return nil }

// MockAIProvider отвечает фиксированным текстом, когда нет API-ключа.
type MockAIProvider struct{}

func (m *MockAIProvider) GenerateReply(ctx context.Context, req ai.Request) (string, error) {
	return "This is a mock assistant response. Configure an AI API key to get real answers.", nil
}

func (m *MockAIProvider) Model() string { return "mock" }

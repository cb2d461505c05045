package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"anamny_backend/internal/ai"
	"anamny_backend/internal/app"
	"anamny_backend/internal/config"
	"anamny_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// StubAIProvider - управляемая заглушка AI-провайдера для тестов.
type StubAIProvider struct {
	mu       sync.Mutex
	Reply    string
	Err      error
	Requests []ai.Request
}

func (p *StubAIProvider) GenerateReply(ctx context.Context, req ai.Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Requests = append(p.Requests, req)
	if p.Err != nil {
		return "", p.Err
	}
	return p.Reply, nil
}

func (p *StubAIProvider) Model() string { return "stub-model" }

// SetError переключает заглушку в режим ошибки
func (p *StubAIProvider) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Err = err
}

// RequestCount возвращает количество обращений к провайдеру
func (p *StubAIProvider) RequestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Requests)
}

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	AI     *StubAIProvider
}

// NewTestServer создает тестовый сервер поверх in-memory SQLite.
// Каждый вызов получает собственную БД, поэтому тесты можно гонять параллельно.
func NewTestServer(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)
	logger.Init("test")

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "my_super_secret_key_for_tests_12345"
	cfg.JWT.TTLMinutes = 30
	cfg.ResetToken.TTLMinutes = 60

	// Уникальное имя, чтобы тесты не делили одну БД
	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД (%s): %v", dsn, err)
	}

	if err := app.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate для тестовой БД: %v", err)
	}

	aiStub := &StubAIProvider{Reply: "Drink more water and get some rest."}

	router := app.SetupRouter(cfg, db, aiStub, &app.MockEmailProvider{})
	server := httptest.NewServer(router)

	return &TestServer{
		Server: server,
		DB:     db,
		AI:     aiStub,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// SendRequest выполняет HTTP-запрос к тестовому серверу
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	url := ts.Server.URL + path

	var reqBody io.Reader = nil
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}

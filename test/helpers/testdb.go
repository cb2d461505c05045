package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"anamny_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RegisterUser регистрирует пользователя через API
func RegisterUser(t *testing.T, ts *TestServer, email, username, password string) *models.User {
	registerBody := map[string]interface{}{
		"email":    email,
		"username": username,
		"password": password,
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, "Регистрация должна быть успешной. Ответ: "+bodyStr)

	var user models.User
	err := ts.DB.Where("email = ?", email).First(&user).Error
	require.NoError(t, err, "Пользователь должен существовать в БД после регистрации")

	return &user
}

// LoginUser логинит пользователя через API и возвращает access-токен
func LoginUser(t *testing.T, ts *TestServer, email, password string) string {
	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+bodyStr)

	var loginResponse struct {
		Token string `json:"access_token"`
	}
	err := json.Unmarshal([]byte(bodyStr), &loginResponse)
	require.NoError(t, err, "Не удалось распарсить JSON ответа логина")
	assert.NotEmpty(t, loginResponse.Token, "Токен не должен быть пустым")

	return loginResponse.Token
}

// CreateAndLoginUser создает пользователя с уникальным email и логинит его
func CreateAndLoginUser(t *testing.T, ts *TestServer) (string, *models.User) {
	suffix := time.Now().UnixNano()
	email := fmt.Sprintf("user_%d@test.com", suffix)
	username := fmt.Sprintf("user_%d", suffix)
	password := "super_password123"

	user := RegisterUser(t, ts, email, username, password)
	token := LoginUser(t, ts, email, password)

	return token, user
}

// FindResetToken достает последний выданный токен сброса для email напрямую из БД.
// Письмо уходит асинхронно, поэтому тесты читают токен из таблицы.
func FindResetToken(t *testing.T, ts *TestServer, email string) *models.PasswordResetToken {
	var token models.PasswordResetToken
	err := ts.DB.Where("email = ? AND used = ?", email, false).
		Order("created_at DESC").
		First(&token).Error
	require.NoError(t, err, "Токен сброса должен существовать в БД")
	return &token
}

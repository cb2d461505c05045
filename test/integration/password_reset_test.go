package integration_test

import (
	"net/http"
	"testing"
	"time"

	"anamny_backend/internal/models"
	"anamny_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPasswordResetFlow - полный цикл: запрос, подтверждение, логин с новым паролем
func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	helpers.RegisterUser(t, ts, "reset@test.com", "resetuser", "old_password123")

	// Шаг 1: запрос сброса
	forgotBody := map[string]interface{}{"email": "reset@test.com"}
	res, _ := ts.SendRequest(t, "POST", "/api/v1/auth/forgot-password", "", forgotBody)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	resetToken := helpers.FindResetToken(t, ts, "reset@test.com")

	// Шаг 2: подтверждение с новым паролем
	confirmBody := map[string]interface{}{
		"token":        resetToken.Token,
		"new_password": "new_password456",
	}
	res2, body2 := ts.SendRequest(t, "POST", "/api/v1/auth/reset-password", "", confirmBody)
	assert.Equal(t, http.StatusOK, res2.StatusCode)
	assert.Contains(t, body2, "Password has been reset successfully")

	// Шаг 3: старый пароль больше не работает
	oldLogin := map[string]interface{}{"email": "reset@test.com", "password": "old_password123"}
	res3, _ := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", oldLogin)
	assert.Equal(t, http.StatusUnauthorized, res3.StatusCode)

	// Шаг 4: новый пароль работает
	helpers.LoginUser(t, ts, "reset@test.com", "new_password456")
}

// TestPasswordReset_TokenSingleUse - токен гасится после первого использования
func TestPasswordReset_TokenSingleUse(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	helpers.RegisterUser(t, ts, "single@test.com", "singleuser", "old_password123")

	forgotBody := map[string]interface{}{"email": "single@test.com"}
	res, _ := ts.SendRequest(t, "POST", "/api/v1/auth/forgot-password", "", forgotBody)
	require.Equal(t, http.StatusOK, res.StatusCode)

	resetToken := helpers.FindResetToken(t, ts, "single@test.com")

	confirmBody := map[string]interface{}{
		"token":        resetToken.Token,
		"new_password": "new_password456",
	}
	res2, _ := ts.SendRequest(t, "POST", "/api/v1/auth/reset-password", "", confirmBody)
	require.Equal(t, http.StatusOK, res2.StatusCode)

	// Повторное использование того же токена
	confirmBody["new_password"] = "another_password789"
	res3, body3 := ts.SendRequest(t, "POST", "/api/v1/auth/reset-password", "", confirmBody)
	assert.Equal(t, http.StatusBadRequest, res3.StatusCode)
	assert.Contains(t, body3, "Invalid or expired reset token")
}

// TestPasswordReset_NewRequestInvalidatesOld - повторный запрос гасит прежний токен
func TestPasswordReset_NewRequestInvalidatesOld(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	helpers.RegisterUser(t, ts, "invalidate@test.com", "invaliduser", "old_password123")

	forgotBody := map[string]interface{}{"email": "invalidate@test.com"}

	res, _ := ts.SendRequest(t, "POST", "/api/v1/auth/forgot-password", "", forgotBody)
	require.Equal(t, http.StatusOK, res.StatusCode)
	firstToken := helpers.FindResetToken(t, ts, "invalidate@test.com")

	res2, _ := ts.SendRequest(t, "POST", "/api/v1/auth/forgot-password", "", forgotBody)
	require.Equal(t, http.StatusOK, res2.StatusCode)
	secondToken := helpers.FindResetToken(t, ts, "invalidate@test.com")

	require.NotEqual(t, firstToken.Token, secondToken.Token)

	// Первый токен погашен повторным запросом
	confirmBody := map[string]interface{}{
		"token":        firstToken.Token,
		"new_password": "new_password456",
	}
	res3, _ := ts.SendRequest(t, "POST", "/api/v1/auth/reset-password", "", confirmBody)
	assert.Equal(t, http.StatusBadRequest, res3.StatusCode)

	// Второй токен действует
	confirmBody["token"] = secondToken.Token
	res4, _ := ts.SendRequest(t, "POST", "/api/v1/auth/reset-password", "", confirmBody)
	assert.Equal(t, http.StatusOK, res4.StatusCode)
}

// TestPasswordReset_ExpiredToken - просроченный токен отклоняется
func TestPasswordReset_ExpiredToken(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	helpers.RegisterUser(t, ts, "expired@test.com", "expireduser", "old_password123")

	forgotBody := map[string]interface{}{"email": "expired@test.com"}
	res, _ := ts.SendRequest(t, "POST", "/api/v1/auth/forgot-password", "", forgotBody)
	require.Equal(t, http.StatusOK, res.StatusCode)

	resetToken := helpers.FindResetToken(t, ts, "expired@test.com")

	// Просрочиваем токен напрямую в БД
	err := ts.DB.Model(&models.PasswordResetToken{}).
		Where("id = ?", resetToken.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error
	require.NoError(t, err)

	confirmBody := map[string]interface{}{
		"token":        resetToken.Token,
		"new_password": "new_password456",
	}
	res2, body2 := ts.SendRequest(t, "POST", "/api/v1/auth/reset-password", "", confirmBody)
	assert.Equal(t, http.StatusBadRequest, res2.StatusCode)
	assert.Contains(t, body2, "Invalid or expired reset token")
}

// TestPasswordReset_UnknownEmail - ответ не раскрывает существование email
func TestPasswordReset_UnknownEmail(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	forgotBody := map[string]interface{}{"email": "ghost@test.com"}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/forgot-password", "", forgotBody)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "If the email exists")

	// Токен при этом не создается
	var count int64
	ts.DB.Model(&models.PasswordResetToken{}).Where("email = ?", "ghost@test.com").Count(&count)
	assert.Equal(t, int64(0), count)
}

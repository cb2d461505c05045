package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"anamny_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAuthFlow - регистрация, логин и доступ к профилю по токену
func TestAuthFlow(t *testing.T) {
	t.Parallel()

	// 1. Подготовка (Arrange)
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	registerBody := map[string]interface{}{
		"email":    "model@test.com",
		"username": "testuser",
		"password": "super_password123",
	}

	// 2. Действие: Регистрация (Act)
	regRes, regBodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", registerBody)

	// 3. Проверка: Регистрация (Assert)
	assert.Equal(t, http.StatusCreated, regRes.StatusCode)
	assert.Contains(t, regBodyStr, "model@test.com")
	assert.NotContains(t, regBodyStr, "password", "Хеш пароля не должен утекать в ответ")
	t.Logf("РЕГИСТРАЦИЯ: Успешно. Ответ: %s", regBodyStr)

	// --- Шаг 2: Логин ---
	loginBody := map[string]interface{}{
		"email":    "model@test.com",
		"password": "super_password123",
	}
	logRes, logBodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", loginBody)

	assert.Equal(t, http.StatusOK, logRes.StatusCode)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal([]byte(logBodyStr), &tokenResp))
	assert.NotEmpty(t, tokenResp.AccessToken)
	assert.Equal(t, "bearer", tokenResp.TokenType)

	// --- Шаг 3: Профиль по токену ---
	profRes, profBodyStr := ts.SendRequest(t, "GET", "/api/v1/auth/profile", tokenResp.AccessToken, nil)

	assert.Equal(t, http.StatusOK, profRes.StatusCode)
	assert.Contains(t, profBodyStr, "model@test.com")
	assert.Contains(t, profBodyStr, "testuser")
}

// TestRegister_DuplicateEmail - защита от дубликатов email
func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	helpers.RegisterUser(t, ts, "dup@test.com", "original", "super_password123")

	registerBody := map[string]interface{}{
		"email":    "dup@test.com",
		"username": "different",
		"password": "super_password123",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", registerBody)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Email already registered")
}

// TestRegister_DuplicateUsername - защита от дубликатов username
func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	helpers.RegisterUser(t, ts, "first@test.com", "sameuser", "super_password123")

	registerBody := map[string]interface{}{
		"email":    "second@test.com",
		"username": "sameuser",
		"password": "super_password123",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", registerBody)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Username already taken")
}

// TestRegister_Validation - невалидные входные данные отклоняются
func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"невалидный email", map[string]interface{}{
			"email": "not-an-email", "username": "validuser", "password": "super_password123",
		}},
		{"короткий пароль", map[string]interface{}{
			"email": "ok@test.com", "username": "validuser", "password": "short",
		}},
		{"короткий username", map[string]interface{}{
			"email": "ok@test.com", "username": "ab", "password": "super_password123",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, _ := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
}

// TestLogin_WrongPassword - одинаковая ошибка для неверного пароля и чужого email
func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	helpers.RegisterUser(t, ts, "known@test.com", "knownuser", "super_password123")

	wrongPassBody := map[string]interface{}{
		"email":    "known@test.com",
		"password": "wrong_password",
	}
	res1, body1 := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", wrongPassBody)
	assert.Equal(t, http.StatusUnauthorized, res1.StatusCode)
	assert.Contains(t, body1, "Incorrect email or password")

	unknownEmailBody := map[string]interface{}{
		"email":    "nobody@test.com",
		"password": "super_password123",
	}
	res2, body2 := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", unknownEmailBody)
	assert.Equal(t, http.StatusUnauthorized, res2.StatusCode)
	assert.Contains(t, body2, "Incorrect email or password")
}

// TestProtectedRoute_NoToken - защищенные маршруты требуют токен
func TestProtectedRoute_NoToken(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	res, _ := ts.SendRequest(t, "GET", "/api/v1/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res2, _ := ts.SendRequest(t, "GET", "/api/v1/auth/profile", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res2.StatusCode)
}

// TestUpdateProfile - частичное обновление трогает только переданные поля
func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, user := helpers.CreateAndLoginUser(t, ts)

	updateBody := map[string]interface{}{
		"full_name":  "Иван Петров",
		"age":        30,
		"gender":     "male",
		"blood_type": "O+",
	}
	res, bodyStr := ts.SendRequest(t, "PATCH", "/api/v1/auth/profile", token, updateBody)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Иван Петров")
	assert.Contains(t, bodyStr, "O+")

	// Частичное обновление: меняем только возраст
	partialBody := map[string]interface{}{"age": 31}
	res2, body2 := ts.SendRequest(t, "PATCH", "/api/v1/auth/profile", token, partialBody)

	assert.Equal(t, http.StatusOK, res2.StatusCode)
	assert.Contains(t, body2, "Иван Петров", "Непереданные поля не должны затираться")
	assert.Contains(t, body2, user.Email)

	var profile struct {
		Age *int `json:"age"`
	}
	require.NoError(t, json.Unmarshal([]byte(body2), &profile))
	require.NotNil(t, profile.Age)
	assert.Equal(t, 31, *profile.Age)
}

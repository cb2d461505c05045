package middleware

import (
	"strings"

	"anamny_backend/internal/logger"
	"anamny_backend/internal/services"
	"anamny_backend/pkg/apperrors"
	"anamny_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// CurrentUserKey - ключ gin-контекста с загруженным *models.User
	CurrentUserKey = "currentUser"
	// UserIDKey - ключ gin-контекста с ID текущего пользователя
	UserIDKey = "userID"
)

// AuthMiddleware разбирает bearer-токен и резолвит его владельца
// через AuthService. Должен стоять после DBMiddleware.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Missing or invalid authorization header"))
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		dbVal, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			logger.CtxError(c.Request.Context(), "db key not found in context, DBMiddleware missing")
			apperrors.HandleError(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		db := dbVal.(*gorm.DB)

		user, err := authService.ResolveCurrentUser(db, tokenStr)
		if err != nil {
			apperrors.HandleError(c, err)
			c.Abort()
			return
		}

		// Кладем пользователя в контекст и обогащаем логи его ID
		c.Set(CurrentUserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))

		c.Next()
	}
}

package middleware

import (
	"backend/internal/app/ds"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "userID"
	userLoginKey = "userLogin"
	userRoleKey  = "userRole"
)

// PrincipalFromContext извлекает аутентифицированного пользователя,
// сохранённого auth middleware. Второе значение false если запрос
// прошёл мимо авторизации.
func PrincipalFromContext(c *gin.Context) (ds.Principal, bool) {
	login, exists := c.Get(userLoginKey)
	if !exists {
		return ds.Principal{}, false
	}

	loginStr, ok := login.(string)
	if !ok || loginStr == "" {
		return ds.Principal{}, false
	}

	userRole := role.Student
	if r, exists := c.Get(userRoleKey); exists {
		if rr, ok := r.(role.Role); ok {
			userRole = rr
		}
	}

	return ds.Principal{Login: loginStr, Role: userRole}, true
}

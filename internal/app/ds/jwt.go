package ds

import (
	"backend/internal/app/role"

	"github.com/golang-jwt/jwt"
)

type JWTClaims struct {
	jwt.StandardClaims
	UserID uint      `json:"user_id"`
	Login  string    `json:"login"`
	Role   role.Role `json:"role"`
}

// Principal аутентифицированный пользователь текущего запроса.
// Передаётся в сервис явным параметром, а не через глобальный контекст.
type Principal struct {
	Login string
	Role  role.Role
}

package handler

import (
	"backend/internal/app/middleware"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// ============ Заявки (Requests) - для авторизованных пользователей ============
	requests := api.Group("/requests")
	{
		// Для всех авторизованных пользователей; сервис сам проверяет владение
		requests.POST("", authMiddleware.WithAuthCheck(role.Student, role.Dean, role.Admin), h.CreateRequest)
		requests.GET("", authMiddleware.WithAuthCheck(role.Student, role.Dean, role.Admin), h.GetRequests)
		requests.GET("/:id", authMiddleware.WithAuthCheck(role.Student, role.Dean, role.Admin), h.GetRequestDetails)
		requests.PUT("/:id/extend", authMiddleware.WithAuthCheck(role.Student, role.Dean, role.Admin), h.ExtendRequestDate)
		requests.POST("/:id/files", authMiddleware.WithAuthCheck(role.Student, role.Dean, role.Admin), h.AddFile)
		requests.DELETE("/:id/files/:file_id", authMiddleware.WithAuthCheck(role.Student, role.Dean, role.Admin), h.UnpinFile)
		requests.GET("/files/:file_id", authMiddleware.WithAuthCheck(role.Student, role.Dean, role.Admin), h.DownloadFile)

		// Только для сотрудников (смена статуса заявки)
		requests.PUT("/:id/status", authMiddleware.WithAuthCheck(role.Dean, role.Admin), h.ChangeRequestStatus)
	}

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.AuthHandler.RegisterUser)
		auth.POST("/login", h.AuthHandler.LoginUser)

		// Защищенные эндпоинты
		auth.GET("/profile", authMiddleware.WithAuthCheck(role.Student, role.Dean, role.Admin), h.AuthHandler.GetUserProfile)
		auth.POST("/logout", authMiddleware.WithAuthCheck(role.Student, role.Dean, role.Admin), h.AuthHandler.LogoutUser)
	}

	// Документация API
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}

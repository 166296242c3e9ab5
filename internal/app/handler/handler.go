package handler

import (
	"errors"
	"net/http"

	"backend/internal/app/dto"
	"backend/internal/app/repository"
	"backend/internal/app/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIHandler содержит обработчики REST API заявок
type APIHandler struct {
	Service     service.RequestService
	AuthHandler *AuthHandler
}

func NewAPIHandler(svc service.RequestService, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Service:     svc,
		AuthHandler: authHandler,
	}
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// serviceErrorResponse транслирует типизированные ошибки сервиса в HTTP статусы
func (h *APIHandler) serviceErrorResponse(c *gin.Context, err error) {
	logrus.Error(err.Error())

	switch {
	case errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrFileNotFound),
		errors.Is(err, service.ErrUserNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		h.errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidDate):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrOptimisticLock):
		h.errorResponse(c, http.StatusConflict, err.Error())
	default:
		h.errorResponse(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}

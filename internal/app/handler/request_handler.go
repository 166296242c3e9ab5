package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"backend/internal/app/dto"
	"backend/internal/app/middleware"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// baseURL восстанавливает абсолютный адрес сервиса из входящего запроса,
// чтобы ссылки на скачивание файлов были абсолютными
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}

// CreateRequest создает заявку на пропуск занятий
// @Summary Создание заявки
// @Description Создает заявку на пропуск занятий от имени текущего пользователя
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRequestRequest true "Данные заявки"
// @Success 201 {object} dto.RequestResultResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/requests [post]
func (h *APIHandler) CreateRequest(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	start, err1 := time.Parse(dateLayout, req.StartedSkipping)
	end, err2 := time.Parse(dateLayout, req.FinishedSkipping)
	if err1 != nil || err2 != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный формат даты, ожидается 2006-01-02")
		return
	}

	result, err := h.Service.Create(c.Request.Context(), principal, start, end, req.Reason)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ChangeRequestStatus изменяет статус заявки
// @Summary Изменение статуса заявки
// @Description Перезаписывает статус заявки (только для сотрудников)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.StatusRequest true "Новый статус"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id}/status [put]
func (h *APIHandler) ChangeRequestStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	if err := h.Service.ChangeStatus(c.Request.Context(), uint(id), req.Status); err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "статус заявки обновлен", nil)
}

// ExtendRequestDate продлевает дату окончания пропуска
// @Summary Продление заявки
// @Description Переносит дату окончания пропуска вперед. Перенос назад отклоняется без ошибки
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.ExtendRequestDateRequest true "Новая дата окончания"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/extend [put]
func (h *APIHandler) ExtendRequestDate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	var req dto.ExtendRequestDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	newFinish, err := time.Parse(dateLayout, req.ExtendSkipping)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный формат даты, ожидается 2006-01-02")
		return
	}

	result, err := h.Service.ExtendDate(c.Request.Context(), uint(id), newFinish)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	// Пустой результат означает что продление отклонено валидатором дат
	if result == nil {
		h.successResponse(c, http.StatusOK, "продление отклонено: новая дата раньше текущей", nil)
		return
	}

	h.successResponse(c, http.StatusOK, "дата окончания продлена", result)
}

// AddFile прикрепляет подтверждающий файл к заявке
// @Summary Прикрепление файла
// @Description Прикрепляет подтверждающий файл к собственной заявке
// @Tags Requests
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param file formData file true "Подтверждающий файл"
// @Success 201 {object} dto.FileResultResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id}/files [post]
func (h *APIHandler) AddFile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Файл не найден в запросе")
		return
	}

	openedFile, err := file.Open()
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(openedFile)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}

	result, err := h.Service.AddFile(c.Request.Context(), principal, uint(id), file.Filename, fileData)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// UnpinFile открепляет файл от заявки
// @Summary Открепление файла
// @Description Открепляет и удаляет подтверждающий файл собственной заявки
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param file_id path int true "ID файла"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id}/files/{file_id} [delete]
func (h *APIHandler) UnpinFile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	id, err1 := strconv.ParseUint(c.Param("id"), 10, 32)
	fileID, err2 := strconv.ParseUint(c.Param("file_id"), 10, 32)
	if err1 != nil || err2 != nil || id == 0 || fileID == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверные ID")
		return
	}

	if err := h.Service.UnpinFile(c.Request.Context(), principal, uint(id), uint(fileID)); err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "файл откреплен от заявки", nil)
}

// GetRequestDetails возвращает заявку со ссылками на скачивание файлов
// @Summary Получение заявки
// @Description Возвращает детали заявки. Студент может смотреть только свои заявки
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.RequestDetailsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id} [get]
func (h *APIHandler) GetRequestDetails(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	result, err := h.Service.GetDetails(c.Request.Context(), principal, uint(id), baseURL(c))
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DownloadFile скачивает подтверждающий файл
// @Summary Скачивание файла
// @Description Возвращает содержимое файла как attachment
// @Tags Requests
// @Produce octet-stream
// @Security BearerAuth
// @Param file_id path int true "ID файла"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/files/{file_id} [get]
func (h *APIHandler) DownloadFile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	fileID, err := strconv.ParseUint(c.Param("file_id"), 10, 32)
	if err != nil || fileID == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID файла")
		return
	}

	file, err := h.Service.DownloadFile(c.Request.Context(), principal, uint(fileID))
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, "application/octet-stream", file.FileData)
}

// GetRequests возвращает список заявок
// @Summary Список заявок
// @Description Студент видит только свои заявки независимо от фильтра. Сотрудники могут фильтровать по пользователю или смотреть все
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "Фильтр по пользователю (только для сотрудников)"
// @Success 200 {object} dto.RequestListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests [get]
func (h *APIHandler) GetRequests(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	var userID *uint
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		parsed, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil || parsed == 0 {
			h.errorResponse(c, http.StatusBadRequest, "Неверный ID пользователя")
			return
		}
		id := uint(parsed)
		userID = &id
	}

	items, err := h.Service.List(c.Request.Context(), principal, userID)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RequestListResponse{
		Requests: items,
		Total:    len(items),
	})
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/repository"
	"backend/internal/app/role"
	"backend/internal/app/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService подменяет бизнес-логику заранее заданными ответами
type stubService struct {
	createResult  *dto.RequestResultResponse
	createErr     error
	changeErr     error
	extendResult  *dto.ExtendRequestDateResult
	extendErr     error
	addFileResult *dto.FileResultResponse
	addFileErr    error
	unpinErr      error
	detailsResult *dto.RequestDetailsResponse
	detailsErr    error
	downloadFile  *ds.File
	downloadErr   error
	listItems     []dto.RequestListItem
	listErr       error

	lastPrincipal ds.Principal
	lastUserID    *uint
}

func (s *stubService) Create(_ context.Context, p ds.Principal, _, _ time.Time, _ string) (*dto.RequestResultResponse, error) {
	s.lastPrincipal = p
	return s.createResult, s.createErr
}

func (s *stubService) ChangeStatus(_ context.Context, _ uint, _ string) error {
	return s.changeErr
}

func (s *stubService) ExtendDate(_ context.Context, _ uint, _ time.Time) (*dto.ExtendRequestDateResult, error) {
	return s.extendResult, s.extendErr
}

func (s *stubService) AddFile(_ context.Context, p ds.Principal, _ uint, _ string, _ []byte) (*dto.FileResultResponse, error) {
	s.lastPrincipal = p
	return s.addFileResult, s.addFileErr
}

func (s *stubService) UnpinFile(_ context.Context, p ds.Principal, _, _ uint) error {
	s.lastPrincipal = p
	return s.unpinErr
}

func (s *stubService) GetDetails(_ context.Context, p ds.Principal, _ uint, _ string) (*dto.RequestDetailsResponse, error) {
	s.lastPrincipal = p
	return s.detailsResult, s.detailsErr
}

func (s *stubService) DownloadFile(_ context.Context, p ds.Principal, _ uint) (*ds.File, error) {
	s.lastPrincipal = p
	return s.downloadFile, s.downloadErr
}

func (s *stubService) List(_ context.Context, p ds.Principal, userID *uint) ([]dto.RequestListItem, error) {
	s.lastPrincipal = p
	s.lastUserID = userID
	return s.listItems, s.listErr
}

// asUser подставляет аутентифицированного пользователя в контекст,
// как это делает auth middleware после проверки JWT
func asUser(login string, userRole role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uint(1))
		c.Set("userLogin", login)
		c.Set("userRole", userRole)
		c.Next()
	}
}

func setupRouter(svc service.RequestService, login string, userRole role.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAPIHandler(svc, nil)

	router := gin.New()
	api := router.Group("/api", asUser(login, userRole))
	api.POST("/requests", h.CreateRequest)
	api.GET("/requests", h.GetRequests)
	api.GET("/requests/:id", h.GetRequestDetails)
	api.PUT("/requests/:id/status", h.ChangeRequestStatus)
	api.PUT("/requests/:id/extend", h.ExtendRequestDate)
	api.POST("/requests/:id/files", h.AddFile)
	api.DELETE("/requests/:id/files/:file_id", h.UnpinFile)
	api.GET("/requests/files/:file_id", h.DownloadFile)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateRequestHandler(t *testing.T) {
	svc := &stubService{
		createResult: &dto.RequestResultResponse{ID: 1, Status: ds.StatusPending},
	}
	router := setupRouter(svc, "ivanov@student.ru", role.Student)

	w := doJSON(t, router, http.MethodPost, "/api/requests", dto.CreateRequestRequest{
		StartedSkipping:  "2024-01-01",
		FinishedSkipping: "2024-01-10",
		Reason:           "болезнь",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "ivanov@student.ru", svc.lastPrincipal.Login)
	assert.Equal(t, role.Student, svc.lastPrincipal.Role)
}

func TestCreateRequestHandlerBadDate(t *testing.T) {
	svc := &stubService{}
	router := setupRouter(svc, "ivanov@student.ru", role.Student)

	w := doJSON(t, router, http.MethodPost, "/api/requests", dto.CreateRequestRequest{
		StartedSkipping:  "01.01.2024",
		FinishedSkipping: "2024-01-10",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRequestHandlerInvalidRange(t *testing.T) {
	svc := &stubService{createErr: service.ErrInvalidDate}
	router := setupRouter(svc, "ivanov@student.ru", role.Student)

	w := doJSON(t, router, http.MethodPost, "/api/requests", dto.CreateRequestRequest{
		StartedSkipping:  "2024-01-10",
		FinishedSkipping: "2024-01-01",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangeStatusHandler(t *testing.T) {
	svc := &stubService{}
	router := setupRouter(svc, "dean@university.ru", role.Dean)

	w := doJSON(t, router, http.MethodPut, "/api/requests/1/status", dto.StatusRequest{Status: ds.StatusApproved})
	assert.Equal(t, http.StatusOK, w.Code)

	// значение вне списка статусов режется binding-валидацией
	w = doJSON(t, router, http.MethodPut, "/api/requests/1/status", gin.H{"status": "UNKNOWN"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangeStatusHandlerNotFound(t *testing.T) {
	svc := &stubService{changeErr: fmt.Errorf("%w: id 42", service.ErrRequestNotFound)}
	router := setupRouter(svc, "dean@university.ru", role.Dean)

	w := doJSON(t, router, http.MethodPut, "/api/requests/42/status", dto.StatusRequest{Status: ds.StatusApproved})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExtendDateHandlerRejected(t *testing.T) {
	// nil-результат сервиса означает отклонённое продление, но не ошибку
	svc := &stubService{extendResult: nil}
	router := setupRouter(svc, "ivanov@student.ru", role.Student)

	w := doJSON(t, router, http.MethodPut, "/api/requests/1/extend", dto.ExtendRequestDateRequest{
		ExtendSkipping: "2024-01-05",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "отклонено")
}

func TestDownloadFileHandler(t *testing.T) {
	svc := &stubService{
		downloadFile: &ds.File{ID: 7, FileName: "справка.pdf", FileData: []byte("pdf-data")},
	}
	router := setupRouter(svc, "ivanov@student.ru", role.Student)

	req := httptest.NewRequest(http.MethodGet, "/api/requests/files/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "справка.pdf")
	assert.Equal(t, "pdf-data", w.Body.String())
}

func TestDownloadFileHandlerForbidden(t *testing.T) {
	svc := &stubService{downloadErr: fmt.Errorf("%w: чужой файл", service.ErrForbidden)}
	router := setupRouter(svc, "petrov@student.ru", role.Student)

	req := httptest.NewRequest(http.MethodGet, "/api/requests/files/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddFileHandler(t *testing.T) {
	svc := &stubService{
		addFileResult: &dto.FileResultResponse{ID: 1, FileName: "справка.pdf"},
	}
	router := setupRouter(svc, "ivanov@student.ru", role.Student)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "справка.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("pdf-data"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/requests/1/files", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAddFileHandlerMissingFile(t *testing.T) {
	svc := &stubService{}
	router := setupRouter(svc, "ivanov@student.ru", role.Student)

	req := httptest.NewRequest(http.MethodPost, "/api/requests/1/files", strings.NewReader(""))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnpinFileHandlerNotFound(t *testing.T) {
	svc := &stubService{unpinErr: fmt.Errorf("%w: файл с id 9", service.ErrFileNotFound)}
	router := setupRouter(svc, "ivanov@student.ru", role.Student)

	req := httptest.NewRequest(http.MethodDelete, "/api/requests/1/files/9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRequestsHandlerFilter(t *testing.T) {
	svc := &stubService{listItems: []dto.RequestListItem{{ID: 1, UserID: 2}}}
	router := setupRouter(svc, "dean@university.ru", role.Dean)

	req := httptest.NewRequest(http.MethodGet, "/api/requests?user_id=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastUserID)
	assert.Equal(t, uint(2), *svc.lastUserID)

	var resp dto.RequestListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestGetRequestsHandlerBadFilter(t *testing.T) {
	svc := &stubService{}
	router := setupRouter(svc, "dean@university.ru", role.Dean)

	req := httptest.NewRequest(http.MethodGet, "/api/requests?user_id=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOptimisticLockConflictResponse(t *testing.T) {
	svc := &stubService{extendErr: repository.ErrOptimisticLock}
	router := setupRouter(svc, "ivanov@student.ru", role.Student)

	w := doJSON(t, router, http.MethodPut, "/api/requests/1/extend", dto.ExtendRequestDateRequest{
		ExtendSkipping: "2024-01-15",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/repository"
	"backend/internal/app/role"
	"backend/internal/app/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RequestService бизнес-логика заявок на пропуск занятий.
// Аутентифицированный пользователь передаётся явным параметром Principal.
type RequestService interface {
	Create(ctx context.Context, p ds.Principal, start, end time.Time, reason string) (*dto.RequestResultResponse, error)
	ChangeStatus(ctx context.Context, id uint, status string) error
	ExtendDate(ctx context.Context, id uint, newFinish time.Time) (*dto.ExtendRequestDateResult, error)
	AddFile(ctx context.Context, p ds.Principal, requestID uint, fileName string, data []byte) (*dto.FileResultResponse, error)
	UnpinFile(ctx context.Context, p ds.Principal, requestID, fileID uint) error
	GetDetails(ctx context.Context, p ds.Principal, requestID uint, baseURL string) (*dto.RequestDetailsResponse, error)
	DownloadFile(ctx context.Context, p ds.Principal, fileID uint) (*ds.File, error)
	List(ctx context.Context, p ds.Principal, userID *uint) ([]dto.RequestListItem, error)
}

type requestService struct {
	repo *repository.Repository
}

func NewRequestService(repo *repository.Repository) RequestService {
	return &requestService{repo: repo}
}

// resolveUser находит пользователя по логину из Principal
func (s *requestService) resolveUser(ctx context.Context, login string) (*ds.User, error) {
	user, err := s.repo.User.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, login)
		}
		return nil, err
	}
	return user, nil
}

// getRequest находит заявку по id
func (s *requestService) getRequest(ctx context.Context, id uint) (*ds.Request, error) {
	request, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRequestNotFound, id)
		}
		return nil, err
	}
	return request, nil
}

// Create создаёт заявку от имени текущего пользователя
func (s *requestService) Create(ctx context.Context, p ds.Principal, start, end time.Time, reason string) (*dto.RequestResultResponse, error) {
	if !validator.CheckDate(start, end) {
		return nil, ErrInvalidDate
	}

	user, err := s.resolveUser(ctx, p.Login)
	if err != nil {
		return nil, err
	}

	request := &ds.Request{
		UserID:           user.ID,
		StartedSkipping:  start,
		FinishedSkipping: end,
		Reason:           reason,
		Status:           ds.StatusPending,
		Version:          1,
		CreatedAt:        time.Now(),
	}
	if err := s.repo.Request.Create(ctx, request); err != nil {
		return nil, err
	}

	logrus.Infof("request %d created by user %d", request.ID, user.ID)

	return &dto.RequestResultResponse{
		ID:               request.ID,
		StartedSkipping:  request.StartedSkipping,
		FinishedSkipping: request.FinishedSkipping,
		Reason:           request.Reason,
		Status:           request.Status,
	}, nil
}

// ChangeStatus перезаписывает статус заявки. Проверка роли выполняется
// на уровне маршрута: эндпоинт доступен только сотрудникам.
func (s *requestService) ChangeStatus(ctx context.Context, id uint, status string) error {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return err
	}

	request.Status = status
	return s.repo.Request.Save(ctx, request)
}

// ExtendDate продлевает дату окончания пропуска. Диапазон проверяется
// от текущей даты окончания к новой: перенос назад отклоняется.
// Отклонение - не ошибка, а пустой результат (nil, nil).
func (s *requestService) ExtendDate(ctx context.Context, id uint, newFinish time.Time) (*dto.ExtendRequestDateResult, error) {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !validator.CheckDate(request.FinishedSkipping, newFinish) {
		return nil, nil
	}

	if err := s.repo.Request.UpdateFinishDate(ctx, request.ID, request.Version, newFinish); err != nil {
		return nil, err
	}

	return &dto.ExtendRequestDateResult{
		ID:               request.ID,
		FinishedSkipping: newFinish,
		Status:           request.Status,
	}, nil
}

// AddFile прикрепляет подтверждающий файл к заявке текущего пользователя
func (s *requestService) AddFile(ctx context.Context, p ds.Principal, requestID uint, fileName string, data []byte) (*dto.FileResultResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, p.Login)
	if err != nil {
		return nil, err
	}

	if request.UserID != user.ID {
		return nil, fmt.Errorf("%w: нельзя прикреплять файлы к чужой заявке", ErrForbidden)
	}

	file := &ds.File{
		FileName:  fileName,
		FileData:  data,
		RequestID: request.ID,
	}
	if err := s.repo.File.Create(ctx, file); err != nil {
		return nil, err
	}

	request.Version++
	if err := s.repo.Request.Save(ctx, request); err != nil {
		return nil, err
	}

	return &dto.FileResultResponse{
		ID:       file.ID,
		FileName: file.FileName,
	}, nil
}

// UnpinFile открепляет и удаляет файл заявки. Файл ищется только среди
// файлов этой заявки: id файла из другой заявки даёт not found.
func (s *requestService) UnpinFile(ctx context.Context, p ds.Principal, requestID, fileID uint) error {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}

	found := false
	for _, proof := range request.Proofs {
		if proof.ID == fileID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: файл с id %d не найден в заявке %d", ErrFileNotFound, fileID, requestID)
	}

	user, err := s.resolveUser(ctx, p.Login)
	if err != nil {
		return err
	}

	if request.UserID != user.ID {
		return fmt.Errorf("%w: это не ваша заявка либо не ваш файл", ErrForbidden)
	}

	// Условное удаление одним запросом: файл должен всё ещё принадлежать заявке
	if err := s.repo.File.DeleteFromRequest(ctx, fileID, request.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: файл с id %d не найден в заявке %d", ErrFileNotFound, fileID, requestID)
		}
		return err
	}

	return nil
}

// GetDetails возвращает заявку со ссылками на скачивание файлов.
// Студент может смотреть только свои заявки, сотрудники - любые.
func (s *requestService) GetDetails(ctx context.Context, p ds.Principal, requestID uint, baseURL string) (*dto.RequestDetailsResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, p.Login)
	if err != nil {
		return nil, err
	}

	if p.Role == role.Student && request.UserID != user.ID {
		return nil, fmt.Errorf("%w: нельзя просматривать чужие заявки", ErrForbidden)
	}

	files := make([]dto.FileInfo, len(request.Proofs))
	for i, proof := range request.Proofs {
		files[i] = dto.FileInfo{
			ID:          proof.ID,
			FileName:    proof.FileName,
			DownloadURL: fmt.Sprintf("%s/api/requests/files/%d", baseURL, proof.ID),
		}
	}

	return &dto.RequestDetailsResponse{
		ID:               request.ID,
		StartedSkipping:  request.StartedSkipping,
		FinishedSkipping: request.FinishedSkipping,
		Reason:           request.Reason,
		Status:           request.Status,
		User: dto.UserResponse{
			ID:       request.User.ID,
			Login:    request.User.Login,
			FullName: request.User.FullName,
			Role:     request.User.Role.String(),
		},
		Files: files,
	}, nil
}

// DownloadFile возвращает файл для скачивания. Студент может скачивать
// только файлы своих заявок.
func (s *requestService) DownloadFile(ctx context.Context, p ds.Principal, fileID uint) (*ds.File, error) {
	file, err := s.repo.File.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrFileNotFound, fileID)
		}
		return nil, err
	}

	if p.Role == role.Student {
		user, err := s.resolveUser(ctx, p.Login)
		if err != nil {
			return nil, err
		}
		request, err := s.getRequest(ctx, file.RequestID)
		if err != nil {
			return nil, err
		}
		if request.UserID != user.ID {
			return nil, fmt.Errorf("%w: нельзя скачивать файлы чужой заявки", ErrForbidden)
		}
	}

	return file, nil
}

// List возвращает список заявок с учётом роли: студент всегда видит
// только свои заявки независимо от фильтра, сотрудники - по фильтру или все.
func (s *requestService) List(ctx context.Context, p ds.Principal, userID *uint) ([]dto.RequestListItem, error) {
	var (
		requests []ds.Request
		err      error
	)

	if p.Role == role.Student {
		user, resolveErr := s.resolveUser(ctx, p.Login)
		if resolveErr != nil {
			return nil, resolveErr
		}
		requests, err = s.repo.Request.ListByUser(ctx, user.ID)
	} else if userID != nil {
		requests, err = s.repo.Request.ListByUser(ctx, *userID)
	} else {
		requests, err = s.repo.Request.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	items := make([]dto.RequestListItem, len(requests))
	for i, request := range requests {
		items[i] = dto.RequestListItem{
			ID:               request.ID,
			StartedSkipping:  request.StartedSkipping,
			FinishedSkipping: request.FinishedSkipping,
			Status:           request.Status,
			UserID:           request.UserID,
			UserLogin:        request.User.Login,
		}
	}
	return items, nil
}

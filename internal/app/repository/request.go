package repository

import (
	"context"
	"time"

	"backend/internal/app/ds"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Методы для заявок

type RequestRepository interface {
	Create(ctx context.Context, request *ds.Request) error
	GetByID(ctx context.Context, id uint) (*ds.Request, error)
	Save(ctx context.Context, request *ds.Request) error
	UpdateFinishDate(ctx context.Context, id uint, version int, finish time.Time) error
	ListByUser(ctx context.Context, userID uint) ([]ds.Request, error)
	ListAll(ctx context.Context) ([]ds.Request, error)
}

type requestRepo struct {
	db *gorm.DB
}

func NewRequestRepo(db *gorm.DB) RequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) Create(ctx context.Context, request *ds.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID возвращает заявку вместе с владельцем и прикреплёнными файлами
func (r *requestRepo) GetByID(ctx context.Context, id uint) (*ds.Request, error) {
	var request ds.Request
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Proofs").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepo) Save(ctx context.Context, request *ds.Request) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(request).Error
}

// UpdateFinishDate обновляет дату окончания с проверкой версии,
// чтобы параллельное изменение заявки не потерялось
func (r *requestRepo) UpdateFinishDate(ctx context.Context, id uint, version int, finish time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&ds.Request{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"finished_skipping": finish,
			"version":           version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOptimisticLock
	}
	return nil
}

func (r *requestRepo) ListByUser(ctx context.Context, userID uint) ([]ds.Request, error) {
	var requests []ds.Request
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *requestRepo) ListAll(ctx context.Context) ([]ds.Request, error) {
	var requests []ds.Request
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

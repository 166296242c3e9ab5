package repository

import (
	"context"

	"backend/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для подтверждающих файлов

type FileRepository interface {
	Create(ctx context.Context, file *ds.File) error
	GetByID(ctx context.Context, id uint) (*ds.File, error)
	DeleteFromRequest(ctx context.Context, fileID, requestID uint) error
}

type fileRepo struct {
	db *gorm.DB
}

func NewFileRepo(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, file *ds.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepo) GetByID(ctx context.Context, id uint) (*ds.File, error) {
	var file ds.File
	err := r.db.WithContext(ctx).First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// DeleteFromRequest удаляет файл только если он прикреплён к указанной заявке.
// Одним запросом: открепление и удаление записи атомарны на уровне БД.
func (r *fileRepo) DeleteFromRequest(ctx context.Context, fileID, requestID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND request_id = ?", fileID, requestID).
		Delete(&ds.File{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package repository

import (
	"errors"
	"fmt"

	"backend/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrOptimisticLock конфликт версий: запись изменена параллельной операцией
var ErrOptimisticLock = errors.New("запись изменена другой операцией, повторите запрос")

// Repository агрегат всех репозиториев
type Repository struct {
	User    UserRepository
	Request RequestRepository
	File    FileRepository
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Request{},
		&ds.File{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		User:    NewUserRepo(db),
		Request: NewRequestRepo(db),
		File:    NewFileRepo(db),
	}, nil
}

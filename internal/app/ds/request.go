package ds

import "time"

// Статусы заявки на пропуск занятий
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Таблица заявок на пропуск занятий
type Request struct {
	ID               uint      `gorm:"primaryKey"`
	UserID           uint      `gorm:"not null;index"` // владелец заявки, не меняется после создания
	StartedSkipping  time.Time `gorm:"type:date;not null"`
	FinishedSkipping time.Time `gorm:"type:date;not null"`
	Reason           string    `gorm:"type:text"`
	Status           string    `gorm:"type:varchar(20);not null;default:'PENDING'"` // PENDING, APPROVED, REJECTED
	Version          int       `gorm:"not null;default:1"`                          // счётчик для оптимистичной блокировки
	CreatedAt        time.Time `gorm:"not null"`

	User   User   `gorm:"foreignKey:UserID"`
	Proofs []File `gorm:"foreignKey:RequestID"` // подтверждающие файлы, выбираются по индексу request_id
}

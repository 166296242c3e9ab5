package ds

import "backend/internal/app/role"

// Таблица пользователей
type User struct {
	ID       uint      `gorm:"primaryKey"`
	Login    string    `gorm:"type:varchar(100);unique;not null"` // email пользователя
	Password string    `gorm:"type:varchar(255);not null"`
	FullName string    `gorm:"type:varchar(100)"`
	Role     role.Role `gorm:"type:int;default:0;not null"` // 0 - студент, 1 - деканат, 2 - администратор
}

package main

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"

	"backend/internal/app/ds"
	"backend/internal/app/dsn"
	"backend/internal/app/role"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Создаёт учётную запись деканата для первого входа в систему
func main() {
	_ = godotenv.Load()

	db, err := gorm.Open(postgres.Open(dsn.FromEnv()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	login := "dean@university.ru"
	password := "changeme"

	// Проверяем что пользователя ещё нет
	var existing ds.User
	err = db.Where("login = ?", login).First(&existing).Error
	if err == nil {
		fmt.Println("user already exists:", login)
		os.Exit(0)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to query users: %v", err)
	}

	h := sha1.New()
	h.Write([]byte(password))

	user := ds.User{
		Login:    login,
		Password: hex.EncodeToString(h.Sum(nil)),
		FullName: "Сотрудник деканата",
		Role:     role.Dean,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to insert user: %v", err)
	}

	fmt.Println("dean user created")
	fmt.Println("  login:", login)
	fmt.Println("  password:", password, "(поменяйте после первого входа)")
}

package main

import (
	"context"

	"backend/internal/pkg"

	"github.com/sirupsen/logrus"
)

// @title Absence Record API
// @description Бэкенд для заявок на пропуск занятий с подтверждающими файлами
// @version 1.0
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logrus.Info("App start")

	app, err := pkg.NewApp(context.Background())
	if err != nil {
		logrus.Fatal(err)
	}
	app.RunApp()

	logrus.Info("App terminated")
}

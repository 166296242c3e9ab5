package service

import "errors"

// Типизированные ошибки бизнес-логики. Обработчики транслируют их
// в HTTP статусы: not found -> 404, forbidden -> 403, invalid -> 400.
var (
	ErrInvalidDate     = errors.New("некорректные входные данные для даты")
	ErrForbidden       = errors.New("доступ запрещён")
	ErrRequestNotFound = errors.New("заявка не найдена")
	ErrFileNotFound    = errors.New("файл не найден")
	ErrUserNotFound    = errors.New("пользователь не найден")
)

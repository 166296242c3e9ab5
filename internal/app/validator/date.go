package validator

import "time"

// CheckDate проверяет корректность диапазона дат: обе даты заданы
// и начало не позже конца. Используется и при создании заявки,
// и при продлении (текущая дата окончания -> новая дата окончания).
func CheckDate(start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	return !start.After(end)
}

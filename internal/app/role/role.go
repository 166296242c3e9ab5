package role

// Role роль пользователя в системе
type Role int

const (
	Student Role = iota // студент: видит только свои заявки
	Dean                // сотрудник деканата
	Admin               // администратор
)

func (r Role) String() string {
	switch r {
	case Student:
		return "STUDENT"
	case Dean:
		return "DEAN"
	case Admin:
		return "ADMIN"
	}
	return "UNKNOWN"
}

// IsStaff возвращает true для всех ролей кроме студента
func (r Role) IsStaff() bool {
	return r != Student
}

package model

import "fmt"

// Role определяет класс прав текущего участника
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Roles возвращает все роли в фиксированном порядке
func Roles() []Role {
	return []Role{RoleStudent, RoleInstructor, RoleAdmin}
}

// ParseRole разбирает роль из строки
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Actor участник, запрашивающий изменение
type Actor struct {
	ID   int64
	Role Role
}

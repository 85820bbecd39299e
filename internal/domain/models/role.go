package models

import "fmt"

// Role роль пользователя витрины. Набор закрыт: buyer, seller, admin.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole разбирает строковое значение роли (например, из claims токена).
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// Viewer аутентифицированный пользователь, от лица которого выполняется операция
type Viewer struct {
	ID   string
	Role Role
}

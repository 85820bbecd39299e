package models

// User представляет пользователя витрины
type User struct {
	ID        string
	Email     string
	Name      string
	BrandName string // заполняется только у продавцов
	PassHash  []byte
	Role      Role
}

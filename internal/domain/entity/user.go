package entity

import "time"

// Roles de usuario. Manager puede editar y anular ventas; cashier solo crearlas.
const (
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// ValidRole indica si el rol es uno de los definidos.
func ValidRole(r string) bool {
	return r == RoleManager || r == RoleCashier
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

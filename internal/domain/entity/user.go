package entity

import "time"

// Roles válidos para User.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// User representa un usuario del sistema (dueño o personal de tiendas).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // owner, staff
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package entity

import "time"

// Role rol de un usuario. root satisface cualquier rol.
type Role string

// Roles válidos para User.
const (
	RoleRoot  Role = "root"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole convierte un string en Role; false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleRoot, RoleAdmin, RoleUser:
		return r, true
	}
	return "", false
}

// Satisfies indica si el rol cumple el rol requerido.
func (r Role) Satisfies(required Role) bool {
	return r == RoleRoot || r == required
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

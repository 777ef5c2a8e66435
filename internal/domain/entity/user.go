package entity

import "time"

// Roles válidos para User. Coinciden con los que firma pkg/jwt.
const (
	RoleAdmin      = "admin"
	RoleMagasinier = "magasinier"
	RoleCommercial = "commercial"
)

// User usuario que opera la API.
type User struct {
	ID           string
	Email        string // único; se guarda en minúsculas
	PasswordHash string // bcrypt, nunca el texto plano
	Name         string
	Role         string // admin, magasinier, commercial
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMagasinier, RoleCommercial:
		return true
	}
	return false
}

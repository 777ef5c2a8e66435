package entity

import "time"

// Client representa un cliente; Name (nombre completo) es su clave natural.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

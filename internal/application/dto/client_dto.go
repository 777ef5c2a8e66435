package dto

import "time"

// CreateClientRequest body para crear un cliente. NomComplet es único.
type CreateClientRequest struct {
	NomComplet string `json:"nom_complet"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	Adresse    string `json:"adresse"`
}

// UpdateClientRequest campos opcionales.
type UpdateClientRequest struct {
	NomComplet *string `json:"nom_complet,omitempty"`
	Email      *string `json:"email,omitempty"`
	Telephone  *string `json:"telephone,omitempty"`
	Adresse    *string `json:"adresse,omitempty"`
}

// ClientResponse respuesta de cliente.
type ClientResponse struct {
	ID         string    `json:"id"`
	NomComplet string    `json:"nom_complet"`
	Email      string    `json:"email"`
	Telephone  string    `json:"telephone"`
	Adresse    string    `json:"adresse"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

package dto

import "time"

// CommandeRequest body para crear o reemplazar una commande.
type CommandeRequest struct {
	ArticleRef           string `json:"article_ref"`
	ClientName           string `json:"client_name"`
	NumeroCommandeClient string `json:"numero_commande_client"`
	Quantite             int    `json:"quantite"`
	TypeCommande         string `json:"type_commande"` // FIRM | PLANNED
	DateSouhaitee        string `json:"date_souhaitee"`
}

// CommandeQuery filtros de búsqueda. Por defecto solo commandes activas.
type CommandeQuery struct {
	ArticleRef      string `query:"article"`
	ClientName      string `query:"client"`
	DateSouhaitee   string `query:"date_souhaitee"`
	DateAjout       string `query:"date_ajout"`
	IncludeInactive bool   `query:"include_inactive"`
	Limit           int    `query:"limit"`
	Offset          int    `query:"offset"`
}

// CommandeResponse respuesta de commande.
type CommandeResponse struct {
	ID                   string    `json:"id"`
	ArticleID            string    `json:"article_id"`
	ArticleRef           string    `json:"article_ref"`
	ClientID             string    `json:"client_id"`
	ClientName           string    `json:"client_name"`
	NumeroCommandeClient string    `json:"numero_commande_client"`
	Quantite             int       `json:"quantite"`
	TypeCommande         string    `json:"type_commande"`
	DateSouhaitee        string    `json:"date_souhaitee"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// CommandeDetailResponse commande con lo entregado y lo pendiente.
type CommandeDetailResponse struct {
	CommandeResponse
	QuantiteLivree   int `json:"quantite_livree"`
	QuantiteRestante int `json:"quantite_restante"`
}

// CommandeListResponse lista paginada de commandes.
type CommandeListResponse struct {
	Items []CommandeResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CommandeSummaryResponse totales de una búsqueda de commandes.
type CommandeSummaryResponse struct {
	TotalQuantite   int `json:"total_quantite"`
	NombreCommandes int `json:"nombre_commandes"`
	QuantiteFirm    int `json:"quantite_firm"`
	QuantitePlanned int `json:"quantite_planned"`
}

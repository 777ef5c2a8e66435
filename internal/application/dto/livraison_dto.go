package dto

import "time"

// LivraisonRequest body para crear o reemplazar una livraison.
// La commande se resuelve por (article_ref, client_name, numero_commande_client).
type LivraisonRequest struct {
	ArticleRef           string `json:"article_ref"`
	ClientName           string `json:"client_name"`
	NumeroCommandeClient string `json:"numero_commande_client"`
	QuantiteLivree       int    `json:"quantite_livree"`
	DateLivraison        string `json:"date_livraison"`
}

// LivraisonQuery filtros de búsqueda; from/to inclusivos.
type LivraisonQuery struct {
	ArticleRef string `query:"article"`
	ClientName string `query:"client"`
	Commande   string `query:"commande"`
	From       string `query:"from"`
	To         string `query:"to"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// LivraisonResponse respuesta de livraison.
type LivraisonResponse struct {
	ID                   string    `json:"id"`
	NumeroBL             string    `json:"numero_bl"`
	ArticleID            string    `json:"article_id"`
	ArticleRef           string    `json:"article_ref"`
	ClientID             string    `json:"client_id"`
	ClientName           string    `json:"client_name"`
	CommandeID           string    `json:"commande_id"`
	NumeroCommandeClient string    `json:"numero_commande_client"`
	QuantiteLivree       int       `json:"quantite_livree"`
	DateLivraison        string    `json:"date_livraison"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// LivraisonListResponse lista paginada de livraisons.
type LivraisonListResponse struct {
	Items []LivraisonResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

package dto

import "time"

// ProductionRequest body para crear o reemplazar una producción. Fechas en formato YYYY-MM-DD.
type ProductionRequest struct {
	ArticleRef     string `json:"article_ref"`
	Quantite       int    `json:"quantite"`
	DateProduction string `json:"date_production"`
}

// ProductionQuery filtros de búsqueda. Prioridad: date, luego year/month, luego from/to.
type ProductionQuery struct {
	ArticleRef string `query:"article"`
	Date       string `query:"date"`
	Year       int    `query:"year"`
	Month      int    `query:"month"`
	From       string `query:"from"`
	To         string `query:"to"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// ProductionResponse respuesta de producción.
type ProductionResponse struct {
	ID             string    `json:"id"`
	ArticleID      string    `json:"article_id"`
	ArticleRef     string    `json:"article_ref"`
	Quantite       int       `json:"quantite"`
	DateProduction string    `json:"date_production"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductionListResponse lista paginada de producciones.
type ProductionListResponse struct {
	Items []ProductionResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

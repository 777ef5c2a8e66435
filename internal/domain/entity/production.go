package entity

import "time"

// Production es una entrada de stock: suma Quantite al artículo una sola vez al crearse.
type Production struct {
	ID             string
	ArticleID      string
	Quantite       int
	DateProduction time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	ArticleRef string
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateArticleRequest body para crear un artículo. El stock siempre inicia en 0.
type CreateArticleRequest struct {
	Ref         string          `json:"ref"`
	Designation string          `json:"designation"`
	Famille     string          `json:"famille"`
	SousFamille string          `json:"sous_famille"`
	TypeProcess string          `json:"type_process"`
	TypeProduit string          `json:"type_produit"`
	UnitPrice   decimal.Decimal `json:"prix_unitaire"`
	MPQ         int             `json:"mpq"`
}

// UpdateArticleRequest campos opcionales; el stock no es editable.
type UpdateArticleRequest struct {
	Ref         *string          `json:"ref,omitempty"`
	Designation *string          `json:"designation,omitempty"`
	Famille     *string          `json:"famille,omitempty"`
	SousFamille *string          `json:"sous_famille,omitempty"`
	TypeProcess *string          `json:"type_process,omitempty"`
	TypeProduit *string          `json:"type_produit,omitempty"`
	UnitPrice   *decimal.Decimal `json:"prix_unitaire,omitempty"`
	MPQ         *int             `json:"mpq,omitempty"`
}

// ArticleResponse respuesta de artículo.
type ArticleResponse struct {
	ID          string          `json:"id"`
	Ref         string          `json:"ref"`
	Designation string          `json:"designation"`
	Famille     string          `json:"famille"`
	SousFamille string          `json:"sous_famille"`
	TypeProcess string          `json:"type_process"`
	TypeProduit string          `json:"type_produit"`
	UnitPrice   decimal.Decimal `json:"prix_unitaire"`
	MPQ         int             `json:"mpq"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ArticleListResponse lista paginada de artículos.
type ArticleListResponse struct {
	Items []ArticleResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

package repository

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// ArticleRepository define el puerto de persistencia para Article (DIP).
// Update nunca escribe Stock: el stock solo cambia vía ArticleStockRepository.
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	GetByRef(ctx context.Context, ref string) (*entity.Article, error)
	Update(ctx context.Context, article *entity.Article) error
	List(ctx context.Context, limit, offset int) ([]*entity.Article, error)
	Delete(ctx context.Context, id string) error
	// CountReferences cuenta producciones, commandes y livraisons que apuntan al artículo.
	CountReferences(ctx context.Context, id string) (int, error)
}

// ArticleStockRepository es el acceso exclusivo del libro de stock a la columna stock.
// Solo se obtiene dentro de una transacción (TxRunner); GetForUpdate bloquea la fila.
type ArticleStockRepository interface {
	GetForUpdate(ctx context.Context, id string) (*entity.Article, error)
	UpdateStock(ctx context.Context, id string, stock int) error
}

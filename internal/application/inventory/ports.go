package inventory

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
// Stock es el único acceso de escritura a article.stock y solo existe aquí.
type TxRepos struct {
	Articles    repository.ArticleRepository
	Stock       repository.ArticleStockRepository
	Clients     repository.ClientRepository
	Commandes   repository.CommandeRepository
	Productions repository.ProductionRepository
	Livraisons  repository.LivraisonRepository
	Sequences   repository.DeliveryNoteSequenceRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

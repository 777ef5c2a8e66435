package repository

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// CommandeRepository define el puerto de persistencia para Commande.
type CommandeRepository interface {
	Create(ctx context.Context, commande *entity.Commande) error
	GetByID(ctx context.Context, id string) (*entity.Commande, error)
	// GetForUpdate obtiene la commande bloqueando la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Commande, error)
	// GetByNaturalKey resuelve por el índice único (artículo, cliente, número de commande).
	GetByNaturalKey(ctx context.Context, articleID, clientID, orderNumber string) (*entity.Commande, error)
	Update(ctx context.Context, commande *entity.Commande) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, filter CommandeFilter) ([]*entity.Commande, error)
	Summary(ctx context.Context, filter CommandeFilter) (CommandeSummary, error)
	Delete(ctx context.Context, id string) error
}

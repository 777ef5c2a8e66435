package repository

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByName(ctx context.Context, name string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
	Delete(ctx context.Context, id string) error
	// CountReferences cuenta commandes y livraisons del cliente.
	CountReferences(ctx context.Context, id string) (int, error)
}

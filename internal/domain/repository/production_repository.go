package repository

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// ProductionRepository define el puerto de persistencia para Production.
type ProductionRepository interface {
	Create(ctx context.Context, production *entity.Production) error
	GetByID(ctx context.Context, id string) (*entity.Production, error)
	Update(ctx context.Context, production *entity.Production) error
	List(ctx context.Context, filter ProductionFilter) ([]*entity.Production, error)
	Delete(ctx context.Context, id string) error
}

package repository

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// LivraisonRepository define el puerto de persistencia para Livraison.
type LivraisonRepository interface {
	Create(ctx context.Context, livraison *entity.Livraison) error
	GetByID(ctx context.Context, id string) (*entity.Livraison, error)
	Update(ctx context.Context, livraison *entity.Livraison) error
	List(ctx context.Context, filter LivraisonFilter) ([]*entity.Livraison, error)
	Delete(ctx context.Context, id string) error
	// SumDeliveredByCommande suma QuantiteLivree de la commande (0 si no hay livraisons).
	SumDeliveredByCommande(ctx context.Context, commandeID string) (int, error)
	CountByCommande(ctx context.Context, commandeID string) (int, error)
	// ListNumerosByYear devuelve los números de BL con sufijo "/<year>".
	ListNumerosByYear(ctx context.Context, year int) ([]string, error)
}

// DeliveryNoteSequenceRepository contador por año de números de BL.
type DeliveryNoteSequenceRepository interface {
	// GetForUpdate bloquea la fila del año; nil si el año aún no tiene contador.
	GetForUpdate(ctx context.Context, year int) (*entity.DeliveryNoteSequence, error)
	// Init crea el contador del año con lastSequence si no existe (idempotente).
	Init(ctx context.Context, year, lastSequence int) error
	Save(ctx context.Context, seq *entity.DeliveryNoteSequence) error
}

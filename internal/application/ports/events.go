package ports

import (
	"context"
	"time"
)

// Tipos de evento de livraison.
const (
	EventLivraisonCreated = "livraison.created"
	EventLivraisonUpdated = "livraison.updated"
	EventLivraisonDeleted = "livraison.deleted"
)

// DeliveryEvent notificación emitida después del commit de una operación sobre una livraison.
type DeliveryEvent struct {
	Type           string    `json:"type"`
	LivraisonID    string    `json:"livraison_id"`
	NumeroBL       string    `json:"numero_bl"`
	ArticleRef     string    `json:"article_ref"`
	ClientName     string    `json:"client_name"`
	OrderNumber    string    `json:"numero_commande_client"`
	QuantiteLivree int       `json:"quantite_livree"`
	DateLivraison  string    `json:"date_livraison"`
	StockAfter     int       `json:"stock_after"`
	CommandeActive bool      `json:"commande_active"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// DeliveryEventPublisher publica eventos de livraison. Un fallo nunca revierte la operación ya confirmada.
type DeliveryEventPublisher interface {
	PublishDelivery(ctx context.Context, event DeliveryEvent) error
}

type nopPublisher struct{}

func (nopPublisher) PublishDelivery(context.Context, DeliveryEvent) error { return nil }

// NopPublisher no publica nada (sin KAFKA_BROKERS).
func NopPublisher() DeliveryEventPublisher { return nopPublisher{} }

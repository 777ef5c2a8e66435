package entity

import "time"

// Livraison es una salida de stock que cumple (parcial o totalmente) una Commande.
// NumeroBL ("<secuencia>/<año>") se asigna al crear y no cambia nunca.
type Livraison struct {
	ID             string
	NumeroBL       string
	ArticleID      string
	ClientID       string
	CommandeID     string
	QuantiteLivree int
	DateLivraison  time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	ArticleRef  string
	ClientName  string
	OrderNumber string
}

package entity

import "time"

// Tipos de commande. Informativos: no cambian el comportamiento del libro de stock.
const (
	CommandeTypeFirm    = "FIRM"
	CommandeTypePlanned = "PLANNED"
)

// IsValidCommandeType indica si t es un tipo de commande conocido.
func IsValidCommandeType(t string) bool {
	return t == CommandeTypeFirm || t == CommandeTypePlanned
}

// Commande representa una demanda de un cliente sobre un artículo.
// (ArticleID, ClientID, OrderNumber) es único: es la clave con la que las livraisons la resuelven.
// IsActive es derivado: true mientras lo entregado sea menor que Quantite.
type Commande struct {
	ID            string
	ArticleID     string
	ClientID      string
	OrderNumber   string // número de commande del cliente
	Quantite      int
	Type          string
	DateSouhaitee time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Campos de lectura (joins); no se persisten desde la entidad.
	ArticleRef string
	ClientName string
}

package repository

import "time"

// CommandeFilter criterios de búsqueda de commandes. Campos vacíos/nil no filtran.
// Las fechas se comparan por día.
type CommandeFilter struct {
	ArticleRef    string
	ClientName    string
	OrderNumber   string
	DateSouhaitee *time.Time
	CreatedOn     *time.Time
	ActiveOnly    bool
	Limit         int
	Offset        int
}

// CommandeSummary totales de una búsqueda de commandes.
type CommandeSummary struct {
	TotalQuantite   int
	NombreCommandes int
	QuantiteFirm    int
	QuantitePlanned int
}

// ProductionFilter criterios de búsqueda de producciones; From/To inclusivos.
type ProductionFilter struct {
	ArticleRef string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// LivraisonFilter criterios de búsqueda de livraisons; From/To inclusivos.
type LivraisonFilter struct {
	ArticleRef  string
	ClientName  string
	OrderNumber string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

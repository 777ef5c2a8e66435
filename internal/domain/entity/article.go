package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Article representa un producto fabricado, identificado por su referencia única (Ref).
// Stock es un campo materializado: solo lo modifica el libro de stock (inventory.StockLedger).
type Article struct {
	ID          string
	Ref         string // referencia única (clave natural)
	Designation string
	Famille     string
	SousFamille string
	TypeProcess string
	TypeProduit string
	UnitPrice   decimal.Decimal
	MPQ         int // cantidad mínima por empaque
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package inventory

import (
	"fmt"

	"github.com/jhoicas/Stock-api/internal/domain"
)

// ApplyDelta calcula el nuevo stock tras sumar delta (positivo entrada, negativo salida).
// Rechaza el movimiento antes de aplicarlo si el resultado sería negativo; nunca recorta a cero.
func ApplyDelta(current, delta int) (int, error) {
	next := current + delta
	if delta < 0 && next < 0 {
		return current, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, -delta)
	}
	return next, nil
}

// CanDeduct indica si se pueden retirar quantity unidades de un stock current.
func CanDeduct(current, quantity int) bool {
	return quantity <= current
}

// ValidateQuantity exige cantidades enteras >= 1 (producciones, commandes y livraisons).
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: la cantidad debe ser al menos 1 (recibido %d)", domain.ErrInvalidInput, quantity)
	}
	return nil
}

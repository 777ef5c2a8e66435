package inventory

// Remaining devuelve lo que falta por entregar de una commande (nunca negativo).
func Remaining(target, delivered int) int {
	if delivered >= target {
		return 0
	}
	return target - delivered
}

// IsOpen aplica la regla de cierre: la commande sigue activa mientras lo entregado no alcance el objetivo.
func IsOpen(target, delivered int) bool {
	return delivered < target
}

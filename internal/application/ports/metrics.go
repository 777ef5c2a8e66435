package ports

import (
	"errors"
	"time"

	"github.com/jhoicas/Stock-api/internal/domain"
)

// Resultados de una operación del libro de stock (etiqueta "outcome" de las métricas).
const (
	OutcomeOK                = "ok"
	OutcomeNotFound          = "not_found"
	OutcomeInvalid           = "invalid"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeQuantityExceeded  = "quantity_exceeded"
	OutcomeConflict          = "conflict"
	OutcomeCorruption        = "data_corruption"
	OutcomeError             = "error"
)

// Sentido de un ajuste de stock.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// LedgerMetrics métricas del libro de stock. La implementación Prometheus vive en infrastructure/metrics.
type LedgerMetrics interface {
	ObserveAdjustment(direction string, quantity int)
	ObserveOperation(operation, outcome string, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveAdjustment(string, int)                  {}
func (nopMetrics) ObserveOperation(string, string, time.Duration) {}

// NopMetrics descarta todas las observaciones.
func NopMetrics() LedgerMetrics { return nopMetrics{} }

// OutcomeOf clasifica el error de una operación para la etiqueta "outcome".
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalid
	case errors.Is(err, domain.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.Is(err, domain.ErrQuantityExceeded):
		return OutcomeQuantityExceeded
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return OutcomeConflict
	case errors.Is(err, domain.ErrDataCorruption):
		return OutcomeCorruption
	default:
		return OutcomeError
	}
}

// IsRejection indica si err es un rechazo de negocio. Los fallos de infraestructura y los datos
// corruptos no lo son.
func IsRejection(err error) bool {
	switch OutcomeOf(err) {
	case OutcomeOK, OutcomeError, OutcomeCorruption:
		return false
	}
	return true
}

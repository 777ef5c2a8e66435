package inventory

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Stock-api/internal/domain"
)

// NormalizeKey normaliza una clave natural (referencia, nombre de cliente, número de commande):
// recorta espacios y aplica NFC para que "é" compuesto y descompuesto resuelvan al mismo registro.
func NormalizeKey(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// RequireKey normaliza value y exige que no quede vacío.
func RequireKey(field, value string) (string, error) {
	key := NormalizeKey(value)
	if key == "" {
		return "", fmt.Errorf("%w: %s es requerido", domain.ErrInvalidInput, field)
	}
	return key, nil
}

package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Stock-api/internal/domain"
)

// FormatNumeroBL construye el número de bon de livraison: "<secuencia>/<año>".
func FormatNumeroBL(sequence, year int) string {
	return strconv.Itoa(sequence) + "/" + strconv.Itoa(year)
}

// ParseNumeroBL separa un número de BL almacenado. Un valor mal formado es corrupción de datos.
func ParseNumeroBL(numero string) (sequence, year int, err error) {
	parts := strings.Split(numero, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: número de BL %q", domain.ErrDataCorruption, numero)
	}
	sequence, err = strconv.Atoi(parts[0])
	if err != nil || sequence < 1 {
		return 0, 0, fmt.Errorf("%w: secuencia de BL %q", domain.ErrDataCorruption, numero)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: año de BL %q", domain.ErrDataCorruption, numero)
	}
	return sequence, year, nil
}

// MaxSequence recorre los números de BL existentes de un año y devuelve la mayor secuencia (0 si no hay).
// Se usa para inicializar el contador del año con números heredados.
func MaxSequence(numeros []string, year int) (int, error) {
	maxSeq := 0
	for _, n := range numeros {
		seq, y, err := ParseNumeroBL(n)
		if err != nil {
			return 0, err
		}
		if y != year {
			return 0, fmt.Errorf("%w: BL %q no pertenece al año %d", domain.ErrDataCorruption, n, year)
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

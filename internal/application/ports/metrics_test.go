package ports_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Stock-api/internal/application/ports"
	"github.com/jhoicas/Stock-api/internal/domain"
)

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      string
		rejection bool
	}{
		{"sin error", nil, ports.OutcomeOK, false},
		{"no encontrado envuelto", fmt.Errorf("%w: artículo X", domain.ErrNotFound), ports.OutcomeNotFound, true},
		{"stock", fmt.Errorf("%w: disponible 3", domain.ErrInsufficientStock), ports.OutcomeInsufficientStock, true},
		{"cantidad", domain.ErrQuantityExceeded, ports.OutcomeQuantityExceeded, true},
		{"duplicado cuenta como conflicto", domain.ErrDuplicate, ports.OutcomeConflict, true},
		{"corrupción", domain.ErrDataCorruption, ports.OutcomeCorruption, false},
		{"infraestructura", errors.New("connection reset"), ports.OutcomeError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ports.OutcomeOf(tt.err))
			assert.Equal(t, tt.rejection, ports.IsRejection(tt.err))
		})
	}
}

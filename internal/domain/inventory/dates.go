package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/Stock-api/internal/domain"
)

// DateLayout formato ISO de todas las fechas de entrada y salida.
const DateLayout = "2006-01-02"

// ParseDate convierte "YYYY-MM-DD" a medianoche UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (formato esperado YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// FormatDate devuelve la fecha en formato ISO.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// MonthRange devuelve [primer día del mes, primer día del mes siguiente).
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 || year < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: año/mes %d/%d", domain.ErrInvalidInput, year, month)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// Package pdf genera el bon de livraison (BL) de una livraison.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor                  │  BON DE LIVRAISON N° + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Dirección / Tel / Email                   │
//	│  COMMANDE: N° cliente + tipo + fecha deseada                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ref | Designación | MPQ | Cant. entregada            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SEGUIMIENTO: pedido / entregado / pendiente                 │
//	│  FOOTER: QR con el número de BL + firmas                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	applivraison "github.com/jhoicas/Stock-api/internal/application/livraison"
	dominv "github.com/jhoicas/Stock-api/internal/domain/inventory"
)

var _ applivraison.DeliveryNotePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa livraison.DeliveryNotePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer string
}

// NewMarotoPDFGenerator construye el generador; issuer es el nombre impreso como emisor.
func NewMarotoPDFGenerator(issuer string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{issuer: issuer}
}

// GenerateDeliveryNotePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDeliveryNotePDF(_ context.Context, note applivraison.DeliveryNote) ([]byte, error) {
	if note.Livraison == nil || note.Article == nil || note.Client == nil || note.Commande == nil {
		return nil, fmt.Errorf("pdf: datos del bon de livraison incompletos")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Bon de livraison "+note.Livraison.NumeroBL, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(note))
	m.AddRows(commandeRow(note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRow(note))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(followUpRow(note))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(note))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y N° BL + fecha de livraison (der).
func (g *MarotoPDFGenerator) headerRow(note applivraison.DeliveryNote) core.Row {
	fecha := note.Livraison.DateLivraison.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(g.issuer, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("BON DE LIVRAISON", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+note.Livraison.NumeroBL, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clientRow: destinatario de la livraison.
func clientRow(note applivraison.DeliveryNote) core.Row {
	c := note.Client
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(c.Address, "—"),
				nonEmpty(c.Phone, "—"),
				nonEmpty(c.Email, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// commandeRow: commande del cliente que cumple esta livraison.
func commandeRow(note applivraison.DeliveryNote) core.Row {
	c := note.Commande
	return row.New(12).Add(
		col.New(12).Add(
			text.New("COMMANDE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("N° cliente: %s   |   Tipo: %s   |   Fecha deseada: %s",
				c.OrderNumber, c.Type, dominv.FormatDate(c.DateSouhaitee),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de artículos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Referencia", 3, align.Left),
		h("Designación", 5, align.Left),
		h("MPQ", 1, align.Center),
		h("Cant. entregada", 3, align.Right),
	)
}

// tableDetailRow: una livraison es siempre una sola línea (un artículo).
func tableDetailRow(note applivraison.DeliveryNote) core.Row {
	a := note.Article
	return row.New(7).Add(
		col.New(3).Add(text.New(a.Ref, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(5).Add(text.New(nonEmpty(a.Designation, "—"), props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(1).Add(text.New(strconv.Itoa(a.MPQ), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(3).Add(text.New(formatQty(note.Livraison.QuantiteLivree), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

// followUpRow: avance de la commande tras esta livraison.
func followUpRow(note applivraison.DeliveryNote) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	target := note.Commande.Quantite
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Pedido:"),
			label("Entregado:"),
			label("Pendiente:"),
		),
		col.New(3).Add(
			value(formatQty(target)),
			value(formatQty(note.Delivered)),
			value(formatQty(dominv.Remaining(target, note.Delivered))),
		),
	)
}

// footerRow: QR con el número de BL y espacio para firmas.
func footerRow(note applivraison.DeliveryNote) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(note.Livraison.NumeroBL, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(4).Add(
			text.New("Firma del transportista", props.Text{Size: 8, Top: 30, Align: align.Center, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Firma y sello del cliente", props.Text{Size: 8, Top: 30, Align: align.Center, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty inserta puntos de miles: 25000 → "25.000".
func formatQty(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	l := len(s)
	if l > 3 {
		buf := make([]byte, 0, l+l/3)
		for i, c := range []byte(s) {
			if i > 0 && (l-i)%3 == 0 {
				buf = append(buf, '.')
			}
			buf = append(buf, c)
		}
		s = string(buf)
	}
	if neg {
		return "-" + s
	}
	return s
}

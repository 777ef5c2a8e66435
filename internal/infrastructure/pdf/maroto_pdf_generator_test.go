package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applivraison "github.com/jhoicas/Stock-api/internal/application/livraison"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "0", formatQty(0))
	assert.Equal(t, "999", formatQty(999))
	assert.Equal(t, "25.000", formatQty(25000))
	assert.Equal(t, "1.000.000", formatQty(1000000))
	assert.Equal(t, "-1.500", formatQty(-1500))
}

func TestGenerateDeliveryNotePDF(t *testing.T) {
	date := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	note := applivraison.DeliveryNote{
		Livraison: &entity.Livraison{NumeroBL: "1/2025", QuantiteLivree: 60, DateLivraison: date},
		Article:   &entity.Article{Ref: "ART-001", Designation: "Carter moteur", MPQ: 10},
		Client:    &entity.Client{Name: "Société Générale"},
		Commande:  &entity.Commande{OrderNumber: "PO-1", Quantite: 60, Type: entity.CommandeTypeFirm, DateSouhaitee: date},
		Delivered: 60,
	}

	out, err := NewMarotoPDFGenerator("Stock API").GenerateDeliveryNotePDF(context.Background(), note)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestGenerateDeliveryNotePDF_DatosIncompletos(t *testing.T) {
	_, err := NewMarotoPDFGenerator("").GenerateDeliveryNotePDF(context.Background(), applivraison.DeliveryNote{})
	assert.Error(t, err)
}

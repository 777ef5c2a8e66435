package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/commande"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/application/livraison"
	"github.com/jhoicas/Stock-api/internal/application/production"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

type env struct {
	ctx        context.Context
	articles   *memory.ArticleRepo
	uc         *production.UseCase
	livraisons *livraison.UseCase
	commandes  *commande.UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	obs := inventory.NewObserver(nil, log)
	ledger := inventory.NewStockLedger(nil, log)
	livraisonRepo := memory.NewLivraisonRepository(store)
	tracker := commande.NewUseCase(store, memory.NewCommandeRepository(store), livraisonRepo, obs, log)
	e := &env{
		ctx:        context.Background(),
		articles:   memory.NewArticleRepository(store),
		uc:         production.NewUseCase(store, ledger, memory.NewProductionRepository(store), obs, log),
		commandes:  tracker,
		livraisons: livraison.NewUseCase(store, ledger, tracker, livraisonRepo, nil, obs, log),
	}
	for _, ref := range []string{"ART-1", "ART-2"} {
		require.NoError(t, e.articles.Create(e.ctx, &entity.Article{ID: "id-" + ref, Ref: ref, Designation: ref, CreatedAt: time.Now()}))
	}
	require.NoError(t, memory.NewClientRepository(store).Create(e.ctx, &entity.Client{ID: "id-client", Name: "Client"}))
	return e
}

func (e *env) stock(t *testing.T, ref string) int {
	t.Helper()
	a, err := e.articles.GetByRef(e.ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.Stock
}

// consume entrega qty unidades del artículo a través de una commande nueva.
func (e *env) consume(t *testing.T, ref string, qty int) {
	t.Helper()
	_, err := e.commandes.Create(e.ctx, dto.CommandeRequest{
		ArticleRef: ref, ClientName: "Client", NumeroCommandeClient: "CMD-" + ref,
		Quantite: qty, TypeCommande: "FIRM", DateSouhaitee: "2025-03-01",
	})
	require.NoError(t, err)
	_, err = e.livraisons.Create(e.ctx, dto.LivraisonRequest{
		ArticleRef: ref, ClientName: "Client", NumeroCommandeClient: "CMD-" + ref,
		QuantiteLivree: qty, DateLivraison: "2025-03-01",
	})
	require.NoError(t, err)
}

func TestProduction_CreateSumaStock(t *testing.T) {
	e := newEnv(t)
	p, err := e.uc.Create(e.ctx, dto.ProductionRequest{ArticleRef: "  ART-1 ", Quantite: 100, DateProduction: "2025-01-10"})
	require.NoError(t, err)
	assert.Equal(t, "ART-1", p.ArticleRef, "la referencia se recorta")
	assert.Equal(t, "2025-01-10", p.DateProduction)
	assert.Equal(t, 100, e.stock(t, "ART-1"))

	_, err = e.uc.Create(e.ctx, dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 5, DateProduction: "2025-01-11"})
	require.NoError(t, err)
	assert.Equal(t, 105, e.stock(t, "ART-1"))
}

func TestProduction_CreateRechazos(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		name string
		req  dto.ProductionRequest
		want error
	}{
		{"cantidad cero", dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 0, DateProduction: "2025-01-10"}, domain.ErrInvalidInput},
		{"cantidad negativa", dto.ProductionRequest{ArticleRef: "ART-1", Quantite: -3, DateProduction: "2025-01-10"}, domain.ErrInvalidInput},
		{"fecha inválida", dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 1, DateProduction: "2025-13-01"}, domain.ErrInvalidInput},
		{"artículo inexistente", dto.ProductionRequest{ArticleRef: "NOPE", Quantite: 1, DateProduction: "2025-01-10"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.Create(e.ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 0, e.stock(t, "ART-1"))
}

func TestProduction_UpdateIdenticaNoCambiaStock(t *testing.T) {
	e := newEnv(t)
	req := dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 40, DateProduction: "2025-01-10"}
	p, err := e.uc.Create(e.ctx, req)
	require.NoError(t, err)

	_, err = e.uc.Update(e.ctx, p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 40, e.stock(t, "ART-1"))
}

func TestProduction_UpdateCambiaArticuloYCantidad(t *testing.T) {
	e := newEnv(t)
	p, err := e.uc.Create(e.ctx, dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 40, DateProduction: "2025-01-10"})
	require.NoError(t, err)

	updated, err := e.uc.Update(e.ctx, p.ID, dto.ProductionRequest{ArticleRef: "ART-2", Quantite: 25, DateProduction: "2025-01-12"})
	require.NoError(t, err)
	assert.Equal(t, "ART-2", updated.ArticleRef)
	assert.Equal(t, 0, e.stock(t, "ART-1"))
	assert.Equal(t, 25, e.stock(t, "ART-2"))
}

func TestProduction_UpdateTrasEntregaAplicaDiferencia(t *testing.T) {
	e := newEnv(t)
	p, err := e.uc.Create(e.ctx, dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 50, DateProduction: "2025-01-10"})
	require.NoError(t, err)
	e.consume(t, "ART-1", 30)
	require.Equal(t, 20, e.stock(t, "ART-1"))

	updated, err := e.uc.Update(e.ctx, p.ID, dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 60, DateProduction: "2025-01-10"})
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Quantite)
	assert.Equal(t, 30, e.stock(t, "ART-1"))

	// Bajar a 20 dejaría el stock en -10.
	_, err = e.uc.Update(e.ctx, p.ID, dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 20, DateProduction: "2025-01-10"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 30, e.stock(t, "ART-1"))

	got, err := e.uc.GetByID(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Quantite)
}

func TestProduction_UpdateTrasEntregaSinCambiosOSoloFecha(t *testing.T) {
	e := newEnv(t)
	req := dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 100, DateProduction: "2025-01-10"}
	p, err := e.uc.Create(e.ctx, req)
	require.NoError(t, err)
	e.consume(t, "ART-1", 60)
	require.Equal(t, 40, e.stock(t, "ART-1"))

	_, err = e.uc.Update(e.ctx, p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 40, e.stock(t, "ART-1"))

	req.DateProduction = "2025-01-11"
	updated, err := e.uc.Update(e.ctx, p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-11", updated.DateProduction)
	assert.Equal(t, 40, e.stock(t, "ART-1"))
}

func TestProduction_UpdateCambioDeArticuloFallaSiYaSeEntrego(t *testing.T) {
	e := newEnv(t)
	p, err := e.uc.Create(e.ctx, dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 50, DateProduction: "2025-01-10"})
	require.NoError(t, err)
	e.consume(t, "ART-1", 30)

	_, err = e.uc.Update(e.ctx, p.ID, dto.ProductionRequest{ArticleRef: "ART-2", Quantite: 50, DateProduction: "2025-01-10"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 20, e.stock(t, "ART-1"))
	assert.Equal(t, 0, e.stock(t, "ART-2"))
}

func TestProduction_Delete(t *testing.T) {
	e := newEnv(t)
	p, err := e.uc.Create(e.ctx, dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 30, DateProduction: "2025-01-10"})
	require.NoError(t, err)
	e.consume(t, "ART-1", 10)

	err = e.uc.Delete(e.ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 20, e.stock(t, "ART-1"))

	q, err := e.uc.Create(e.ctx, dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 5, DateProduction: "2025-01-11"})
	require.NoError(t, err)
	require.NoError(t, e.uc.Delete(e.ctx, q.ID))
	assert.Equal(t, 20, e.stock(t, "ART-1"))

	_, err = e.uc.GetByID(e.ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, e.uc.Delete(e.ctx, q.ID), domain.ErrNotFound)
}

func TestProduction_ListFiltros(t *testing.T) {
	e := newEnv(t)
	for _, r := range []dto.ProductionRequest{
		{ArticleRef: "ART-1", Quantite: 1, DateProduction: "2024-12-31"},
		{ArticleRef: "ART-1", Quantite: 2, DateProduction: "2025-01-10"},
		{ArticleRef: "ART-1", Quantite: 3, DateProduction: "2025-01-31"},
		{ArticleRef: "ART-2", Quantite: 4, DateProduction: "2025-02-01"},
	} {
		_, err := e.uc.Create(e.ctx, r)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		query dto.ProductionQuery
		want  []int
	}{
		{"todas, más recientes primero", dto.ProductionQuery{}, []int{4, 3, 2, 1}},
		{"por artículo", dto.ProductionQuery{ArticleRef: "ART-2"}, []int{4}},
		{"por fecha", dto.ProductionQuery{Date: "2025-01-10"}, []int{2}},
		{"por año y mes", dto.ProductionQuery{Year: 2025, Month: 1}, []int{3, 2}},
		{"por año", dto.ProductionQuery{Year: 2024}, []int{1}},
		{"por rango", dto.ProductionQuery{From: "2025-01-10", To: "2025-02-01"}, []int{4, 3, 2}},
		{"la fecha tiene prioridad sobre el rango", dto.ProductionQuery{Date: "2024-12-31", From: "2025-01-01"}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.uc.List(e.ctx, tt.query)
			require.NoError(t, err)
			got := make([]int, 0, len(out.Items))
			for _, p := range out.Items {
				got = append(got, p.Quantite)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := e.uc.List(e.ctx, dto.ProductionQuery{Month: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.uc.List(e.ctx, dto.ProductionQuery{Year: 2025, Month: 13})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

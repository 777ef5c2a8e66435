package commande_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/commande"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

type env struct {
	ctx   context.Context
	store *memory.Store
	uc    *commande.UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	e := &env{
		ctx:   context.Background(),
		store: store,
		uc: commande.NewUseCase(store, memory.NewCommandeRepository(store), memory.NewLivraisonRepository(store),
			inventory.NewObserver(nil, log), log),
	}
	articles := memory.NewArticleRepository(store)
	clients := memory.NewClientRepository(store)
	for _, ref := range []string{"ART-1", "ART-2"} {
		require.NoError(t, articles.Create(e.ctx, &entity.Article{ID: "id-" + ref, Ref: ref, Stock: 0}))
	}
	for _, name := range []string{"Client A", "Client B"} {
		require.NoError(t, clients.Create(e.ctx, &entity.Client{ID: "id-" + name, Name: name}))
	}
	return e
}

func request(ref, client, numero string, qty int, typ string) dto.CommandeRequest {
	return dto.CommandeRequest{
		ArticleRef: ref, ClientName: client, NumeroCommandeClient: numero,
		Quantite: qty, TypeCommande: typ, DateSouhaitee: "2025-02-01",
	}
}

// deliver registra una livraison directamente en el almacén, sin pasar por el stock.
func (e *env) deliver(t *testing.T, commandeID string, qty int) {
	t.Helper()
	require.NoError(t, e.store.Run(e.ctx, func(r inventory.TxRepos) error {
		c, err := r.Commandes.GetByID(e.ctx, commandeID)
		if err != nil {
			return err
		}
		return r.Livraisons.Create(e.ctx, &entity.Livraison{
			ID: commandeID + "-" + time.Now().Format(time.RFC3339Nano), NumeroBL: time.Now().Format(time.RFC3339Nano) + "/2025",
			ArticleID: c.ArticleID, ClientID: c.ClientID, CommandeID: c.ID,
			QuantiteLivree: qty, DateLivraison: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		})
	}))
}

func TestCommande_Create(t *testing.T) {
	e := newEnv(t)
	c, err := e.uc.Create(e.ctx, request("ART-1", "Client A", "CMD-1", 60, "firm"))
	require.NoError(t, err)
	assert.Equal(t, entity.CommandeTypeFirm, c.TypeCommande)
	assert.True(t, c.IsActive)
	assert.Equal(t, 0, c.QuantiteLivree)
	assert.Equal(t, 60, c.QuantiteRestante)
	assert.Equal(t, "2025-02-01", c.DateSouhaitee)
}

func TestCommande_CreateRechazos(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Create(e.ctx, request("ART-1", "Client A", "CMD-1", 10, "FIRM"))
	require.NoError(t, err)

	tests := []struct {
		name string
		req  dto.CommandeRequest
		want error
	}{
		{"clave natural repetida", request("ART-1", "Client A", "CMD-1", 5, "PLANNED"), domain.ErrConflict},
		{"tipo desconocido", request("ART-1", "Client A", "CMD-2", 5, "MAYBE"), domain.ErrInvalidInput},
		{"cantidad cero", request("ART-1", "Client A", "CMD-2", 0, "FIRM"), domain.ErrInvalidInput},
		{"número vacío", request("ART-1", "Client A", "  ", 1, "FIRM"), domain.ErrInvalidInput},
		{"artículo inexistente", request("NOPE", "Client A", "CMD-2", 1, "FIRM"), domain.ErrNotFound},
		{"cliente inexistente", request("ART-1", "Nadie", "CMD-2", 1, "FIRM"), domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.Create(e.ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// El mismo número es válido para otro cliente u otro artículo.
	_, err = e.uc.Create(e.ctx, request("ART-1", "Client B", "CMD-1", 5, "FIRM"))
	assert.NoError(t, err)
	_, err = e.uc.Create(e.ctx, request("ART-2", "Client A", "CMD-1", 5, "FIRM"))
	assert.NoError(t, err)
}

func TestCommande_UpdateReconcilia(t *testing.T) {
	e := newEnv(t)
	c, err := e.uc.Create(e.ctx, request("ART-1", "Client A", "CMD-1", 50, "FIRM"))
	require.NoError(t, err)
	e.deliver(t, c.ID, 30)

	out, err := e.uc.Update(e.ctx, c.ID, request("ART-1", "Client A", "CMD-1", 30, "FIRM"))
	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.Equal(t, 0, out.QuantiteRestante)

	out, err = e.uc.Update(e.ctx, c.ID, request("ART-1", "Client A", "CMD-1", 40, "PLANNED"))
	require.NoError(t, err)
	assert.True(t, out.IsActive)
	assert.Equal(t, 10, out.QuantiteRestante)
	assert.Equal(t, entity.CommandeTypePlanned, out.TypeCommande)

	// Reducir por debajo de lo entregado deja la commande cerrada con pendiente 0.
	out, err = e.uc.Update(e.ctx, c.ID, request("ART-1", "Client A", "CMD-1", 20, "FIRM"))
	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.Equal(t, 0, out.QuantiteRestante)
}

func TestCommande_UpdateConflictos(t *testing.T) {
	e := newEnv(t)
	c, err := e.uc.Create(e.ctx, request("ART-1", "Client A", "CMD-1", 50, "FIRM"))
	require.NoError(t, err)
	_, err = e.uc.Create(e.ctx, request("ART-1", "Client A", "CMD-2", 50, "FIRM"))
	require.NoError(t, err)

	_, err = e.uc.Update(e.ctx, c.ID, request("ART-1", "Client A", "CMD-2", 50, "FIRM"))
	assert.ErrorIs(t, err, domain.ErrConflict, "colisión de clave natural")

	// Sin livraisons se puede mover a otro artículo.
	moved, err := e.uc.Update(e.ctx, c.ID, request("ART-2", "Client A", "CMD-1", 50, "FIRM"))
	require.NoError(t, err)
	assert.Equal(t, "ART-2", moved.ArticleRef)

	e.deliver(t, c.ID, 5)
	_, err = e.uc.Update(e.ctx, c.ID, request("ART-1", "Client A", "CMD-1", 50, "FIRM"))
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = e.uc.Update(e.ctx, c.ID, request("ART-2", "Client B", "CMD-1", 50, "FIRM"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = e.uc.Update(e.ctx, "nope", request("ART-1", "Client A", "CMD-9", 1, "FIRM"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommande_Delete(t *testing.T) {
	e := newEnv(t)
	c, err := e.uc.Create(e.ctx, request("ART-1", "Client A", "CMD-1", 50, "FIRM"))
	require.NoError(t, err)
	d, err := e.uc.Create(e.ctx, request("ART-1", "Client A", "CMD-2", 50, "FIRM"))
	require.NoError(t, err)
	e.deliver(t, c.ID, 5)

	assert.ErrorIs(t, e.uc.Delete(e.ctx, c.ID), domain.ErrConflict)
	require.NoError(t, e.uc.Delete(e.ctx, d.ID))
	_, err = e.uc.GetByID(e.ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, e.uc.Delete(e.ctx, d.ID), domain.ErrNotFound)
}

func TestCommande_Reconcile(t *testing.T) {
	e := newEnv(t)
	c, err := e.uc.Create(e.ctx, request("ART-1", "Client A", "CMD-1", 10, "FIRM"))
	require.NoError(t, err)
	e.deliver(t, c.ID, 10)

	out, err := e.uc.Reconcile(e.ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.Equal(t, 10, out.QuantiteLivree)

	_, err = e.uc.Reconcile(e.ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommande_ListYSummary(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Create(e.ctx, request("ART-1", "Client A", "CMD-1", 10, "FIRM"))
	require.NoError(t, err)
	_, err = e.uc.Create(e.ctx, request("ART-1", "Client B", "CMD-2", 20, "PLANNED"))
	require.NoError(t, err)
	closed, err := e.uc.Create(e.ctx, request("ART-2", "Client A", "CMD-3", 5, "FIRM"))
	require.NoError(t, err)
	e.deliver(t, closed.ID, 5)
	_, err = e.uc.Reconcile(e.ctx, closed.ID)
	require.NoError(t, err)

	active, err := e.uc.List(e.ctx, dto.CommandeQuery{})
	require.NoError(t, err)
	assert.Len(t, active.Items, 2, "por defecto solo activas")

	all, err := e.uc.List(e.ctx, dto.CommandeQuery{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	byClient, err := e.uc.List(e.ctx, dto.CommandeQuery{ClientName: "Client B"})
	require.NoError(t, err)
	require.Len(t, byClient.Items, 1)
	assert.Equal(t, "CMD-2", byClient.Items[0].NumeroCommandeClient)

	byDate, err := e.uc.List(e.ctx, dto.CommandeQuery{DateSouhaitee: "2025-02-01", IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, byDate.Items, 3)

	s, err := e.uc.Summary(e.ctx, dto.CommandeQuery{})
	require.NoError(t, err)
	assert.Equal(t, dto.CommandeSummaryResponse{TotalQuantite: 30, NombreCommandes: 2, QuantiteFirm: 10, QuantitePlanned: 20}, *s)

	s, err = e.uc.Summary(e.ctx, dto.CommandeQuery{IncludeInactive: true, ArticleRef: "ART-2"})
	require.NoError(t, err)
	assert.Equal(t, 5, s.TotalQuantite)
	assert.Equal(t, 1, s.NombreCommandes)

	_, err = e.uc.List(e.ctx, dto.CommandeQuery{DateAjout: "hoy"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/infrastructure/memory"
)

func TestStore_RunDescartaCambiosAnteError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	articles := memory.NewArticleRepository(store)
	require.NoError(t, articles.Create(ctx, &entity.Article{ID: "a1", Ref: "ART-1"}))

	boom := errors.New("boom")
	err := store.Run(ctx, func(r inventory.TxRepos) error {
		if err := r.Stock.UpdateStock(ctx, "a1", 42); err != nil {
			return err
		}
		if err := r.Sequences.Init(ctx, 2025, 3); err != nil {
			return err
		}
		// Dentro de la transacción se ven los cambios propios.
		a, err := r.Stock.GetForUpdate(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, 42, a.Stock)
		return boom
	})
	require.ErrorIs(t, err, boom)

	a, err := articles.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Stock)

	require.NoError(t, store.Run(ctx, func(r inventory.TxRepos) error {
		seq, err := r.Sequences.GetForUpdate(ctx, 2025)
		require.NoError(t, err)
		assert.Nil(t, seq, "el contador inicializado en la transacción fallida no persiste")
		return nil
	}))
}

func TestStore_RunPublicaAlConfirmar(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	articles := memory.NewArticleRepository(store)
	require.NoError(t, articles.Create(ctx, &entity.Article{ID: "a1", Ref: "ART-1"}))

	require.NoError(t, store.Run(ctx, func(r inventory.TxRepos) error {
		return r.Stock.UpdateStock(ctx, "a1", 7)
	}))
	a, err := articles.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 7, a.Stock)

	err = store.Run(ctx, func(r inventory.TxRepos) error {
		return r.Stock.UpdateStock(ctx, "missing", 1)
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_RunContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := store.Run(ctx, func(inventory.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_TransaccionesSerializadas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	articles := memory.NewArticleRepository(store)
	require.NoError(t, articles.Create(ctx, &entity.Article{ID: "a1", Ref: "ART-1"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Run(ctx, func(r inventory.TxRepos) error {
				a, err := r.Stock.GetForUpdate(ctx, "a1")
				if err != nil {
					return err
				}
				return r.Stock.UpdateStock(ctx, "a1", a.Stock+1)
			})
		}()
	}
	wg.Wait()

	a, err := articles.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 50, a.Stock)
}

func TestRepos_UnicidadYBusquedas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	articles := memory.NewArticleRepository(store)
	clients := memory.NewClientRepository(store)
	livraisons := memory.NewLivraisonRepository(store)

	require.NoError(t, articles.Create(ctx, &entity.Article{ID: "a1", Ref: "ART-1"}))
	assert.ErrorIs(t, articles.Create(ctx, &entity.Article{ID: "a2", Ref: "ART-1"}), domain.ErrDuplicate)
	require.NoError(t, clients.Create(ctx, &entity.Client{ID: "c1", Name: "Acme"}))
	assert.ErrorIs(t, clients.Create(ctx, &entity.Client{ID: "c2", Name: "Acme"}), domain.ErrDuplicate)

	got, err := articles.GetByRef(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, n := range []string{"1/2024", "2/2025", "12/2025"} {
		require.NoError(t, livraisons.Create(ctx, &entity.Livraison{ID: n, NumeroBL: n, ArticleID: "a1", ClientID: "c1"}))
	}
	assert.ErrorIs(t, livraisons.Create(ctx, &entity.Livraison{ID: "dup", NumeroBL: "1/2024"}), domain.ErrDuplicate)

	numeros, err := livraisons.ListNumerosByYear(ctx, 2025)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2/2025", "12/2025"}, numeros)
}

func TestRepos_UpdateInexistenteDevuelveNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	tests := []struct {
		name   string
		update func() error
	}{
		{"article", func() error {
			return memory.NewArticleRepository(store).Update(ctx, &entity.Article{ID: "nope", Ref: "ART-X"})
		}},
		{"client", func() error {
			return memory.NewClientRepository(store).Update(ctx, &entity.Client{ID: "nope", Name: "X"})
		}},
		{"commande", func() error {
			return memory.NewCommandeRepository(store).Update(ctx, &entity.Commande{ID: "nope"})
		}},
		{"production", func() error {
			return memory.NewProductionRepository(store).Update(ctx, &entity.Production{ID: "nope"})
		}},
		{"livraison", func() error {
			return memory.NewLivraisonRepository(store).Update(ctx, &entity.Livraison{ID: "nope"})
		}},
		{"user", func() error {
			return memory.NewUserRepository(store).Update(ctx, &entity.User{ID: "nope"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.update(), domain.ErrNotFound)
		})
	}
}

package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/application/ports"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

type recordedMetrics struct {
	in, out    int
	operations []string
}

func (m *recordedMetrics) ObserveAdjustment(direction string, quantity int) {
	if direction == ports.DirectionIn {
		m.in += quantity
	} else {
		m.out += quantity
	}
}

func (m *recordedMetrics) ObserveOperation(op, outcome string, _ time.Duration) {
	m.operations = append(m.operations, op+":"+outcome)
}

func seedArticle(t *testing.T, store *memory.Store, id, ref string, stock int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, memory.NewArticleRepository(store).Create(ctx, &entity.Article{ID: id, Ref: ref}))
	if stock > 0 {
		require.NoError(t, store.Run(ctx, func(r inventory.TxRepos) error {
			return r.Stock.UpdateStock(ctx, id, stock)
		}))
	}
}

func stockOf(t *testing.T, store *memory.Store, id string) int {
	t.Helper()
	a, err := memory.NewArticleRepository(store).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.Stock
}

func TestStockLedger_Adjust(t *testing.T) {
	store := memory.NewStore()
	seedArticle(t, store, "a1", "REF-1", 10)
	metrics := &recordedMetrics{}
	ledger := inventory.NewStockLedger(metrics, logger.Nop())
	ctx := context.Background()

	err := store.Run(ctx, func(r inventory.TxRepos) error {
		a, err := ledger.Adjust(ctx, r.Stock, "a1", 5)
		require.NoError(t, err)
		assert.Equal(t, 15, a.Stock)
		a, err = ledger.Adjust(ctx, r.Stock, "a1", -15)
		require.NoError(t, err)
		assert.Equal(t, 0, a.Stock)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, store, "a1"))
	assert.Equal(t, 5, metrics.in)
	assert.Equal(t, 15, metrics.out)
}

func TestStockLedger_Adjust_StockInsuficienteNoModifica(t *testing.T) {
	store := memory.NewStore()
	seedArticle(t, store, "a1", "REF-1", 10)
	ledger := inventory.NewStockLedger(nil, nil)
	ctx := context.Background()

	err := store.Run(ctx, func(r inventory.TxRepos) error {
		_, err := ledger.Adjust(ctx, r.Stock, "a1", -15)
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 10")
	assert.Equal(t, 10, stockOf(t, store, "a1"))
}

func TestStockLedger_Adjust_ArticuloInexistente(t *testing.T) {
	store := memory.NewStore()
	ledger := inventory.NewStockLedger(nil, nil)
	ctx := context.Background()

	err := store.Run(ctx, func(r inventory.TxRepos) error {
		_, err := ledger.Adjust(ctx, r.Stock, "nope", 1)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockLedger_CanDeduct(t *testing.T) {
	store := memory.NewStore()
	seedArticle(t, store, "a1", "REF-1", 10)
	ledger := inventory.NewStockLedger(nil, nil)
	ctx := context.Background()

	require.NoError(t, store.Run(ctx, func(r inventory.TxRepos) error {
		ok, available, err := ledger.CanDeduct(ctx, r.Stock, "a1", 10)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 10, available)

		ok, _, err = ledger.CanDeduct(ctx, r.Stock, "a1", 11)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	}))
}

func TestStockLedger_Lock_DeduplicaYFallaSiFalta(t *testing.T) {
	store := memory.NewStore()
	seedArticle(t, store, "b", "REF-B", 0)
	seedArticle(t, store, "a", "REF-A", 0)
	ledger := inventory.NewStockLedger(nil, nil)
	ctx := context.Background()

	require.NoError(t, store.Run(ctx, func(r inventory.TxRepos) error {
		locked, err := ledger.Lock(ctx, r.Stock, "b", "a", "b", "")
		require.NoError(t, err)
		assert.Len(t, locked, 2)

		_, err = ledger.Lock(ctx, r.Stock, "a", "zzz")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	}))
}

func TestObserver_RegistraResultado(t *testing.T) {
	metrics := &recordedMetrics{}
	obs := inventory.NewObserver(metrics, logger.Nop())

	run := func(fail error) (err error) {
		_, end := obs.Start(context.Background(), "production.create")
		defer end(&err)
		return fail
	}
	require.NoError(t, run(nil))
	require.Error(t, run(domain.ErrInsufficientStock))

	assert.Equal(t, []string{"production.create:ok", "production.create:insufficient_stock"}, metrics.operations)
}

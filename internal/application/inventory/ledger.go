package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Stock-api/internal/application/ports"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	dominv "github.com/jhoicas/Stock-api/internal/domain/inventory"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// StockLedger es el único punto de mutación de article.stock.
// Trabaja siempre con el ArticleStockRepository de la transacción del caller,
// de modo que lectura, validación y escritura quedan bajo el mismo bloqueo de fila.
type StockLedger struct {
	metrics ports.LedgerMetrics
	log     *logger.Logger
}

// NewStockLedger construye el libro de stock.
func NewStockLedger(metrics ports.LedgerMetrics, log *logger.Logger) *StockLedger {
	if metrics == nil {
		metrics = ports.NopMetrics()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockLedger{metrics: metrics, log: log.Component("ledger")}
}

// Adjust suma delta al stock del artículo (negativo para salidas) y persiste.
// Falla con ErrInsufficientStock, sin tocar nada, si el resultado fuese negativo.
func (l *StockLedger) Adjust(ctx context.Context, stock repository.ArticleStockRepository, articleID string, delta int) (*entity.Article, error) {
	article, err := l.get(ctx, stock, articleID)
	if err != nil {
		return nil, err
	}
	next, err := dominv.ApplyDelta(article.Stock, delta)
	if err != nil {
		return nil, fmt.Errorf("artículo %s: %w", article.Ref, err)
	}
	if delta == 0 {
		return article, nil
	}
	if err := stock.UpdateStock(ctx, article.ID, next); err != nil {
		return nil, err
	}
	l.log.Debug().
		Str("article", article.Ref).
		Int("delta", delta).
		Int("stock_before", article.Stock).
		Int("stock_after", next).
		Msg("ajuste de stock")

	if delta > 0 {
		l.metrics.ObserveAdjustment(ports.DirectionIn, delta)
	} else {
		l.metrics.ObserveAdjustment(ports.DirectionOut, -delta)
	}
	article.Stock = next
	return article, nil
}

// CanDeduct indica si quantity <= stock actual y devuelve el stock disponible.
func (l *StockLedger) CanDeduct(ctx context.Context, stock repository.ArticleStockRepository, articleID string, quantity int) (bool, int, error) {
	article, err := l.get(ctx, stock, articleID)
	if err != nil {
		return false, 0, err
	}
	return dominv.CanDeduct(article.Stock, quantity), article.Stock, nil
}

// Lock bloquea las filas de los artículos en orden ascendente de id (sin duplicados).
// Dos operaciones que tocan los mismos artículos los bloquean siempre en el mismo orden.
func (l *StockLedger) Lock(ctx context.Context, stock repository.ArticleStockRepository, articleIDs ...string) (map[string]*entity.Article, error) {
	ids := make([]string, 0, len(articleIDs))
	seen := make(map[string]bool, len(articleIDs))
	for _, id := range articleIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)

	locked := make(map[string]*entity.Article, len(ids))
	for _, id := range ids {
		article, err := l.get(ctx, stock, id)
		if err != nil {
			return nil, err
		}
		locked[id] = article
	}
	return locked, nil
}

func (l *StockLedger) get(ctx context.Context, stock repository.ArticleStockRepository, articleID string) (*entity.Article, error) {
	article, err := stock.GetForUpdate(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, articleID)
	}
	return article, nil
}

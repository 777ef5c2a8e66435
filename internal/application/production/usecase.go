// Package production registra las entradas de stock por producción.
package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	dominv "github.com/jhoicas/Stock-api/internal/domain/inventory"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// UseCase crea, edita y elimina producciones. Cada cambio pasa por el libro de stock
// dentro de una única transacción: editar sustituye el efecto anterior y borrar lo revierte.
type UseCase struct {
	txRunner    inventory.TxRunner
	ledger      *inventory.StockLedger
	productions repository.ProductionRepository
	obs         inventory.Observer
	log         *logger.Logger
}

// NewUseCase construye el caso de uso. productions se usa solo para lecturas fuera de transacción.
func NewUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.StockLedger,
	productions repository.ProductionRepository,
	obs inventory.Observer,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		productions: productions,
		obs:         obs,
		log:         log.Component("production"),
	}
}

type productionInput struct {
	ref  string
	qty  int
	date time.Time
}

func parseRequest(in dto.ProductionRequest) (productionInput, error) {
	ref, err := dominv.RequireKey("article_ref", in.ArticleRef)
	if err != nil {
		return productionInput{}, err
	}
	if err := dominv.ValidateQuantity(in.Quantite); err != nil {
		return productionInput{}, err
	}
	date, err := dominv.ParseDate(in.DateProduction)
	if err != nil {
		return productionInput{}, err
	}
	return productionInput{ref: ref, qty: in.Quantite, date: date}, nil
}

// Create registra una producción y suma su cantidad al stock del artículo.
func (uc *UseCase) Create(ctx context.Context, in dto.ProductionRequest) (_ *dto.ProductionResponse, err error) {
	ctx, end := uc.obs.Start(ctx, "production.create",
		attribute.String("article.ref", in.ArticleRef),
		attribute.Int("quantite", in.Quantite),
	)
	defer end(&err)

	input, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &entity.Production{
		ID:             uuid.New().String(),
		Quantite:       input.qty,
		DateProduction: input.date,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var stockBefore, stockAfter int
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		article, err := resolveArticle(ctx, repos, input.ref)
		if err != nil {
			return err
		}
		p.ArticleID = article.ID
		p.ArticleRef = article.Ref

		updated, err := uc.ledger.Adjust(ctx, repos.Stock, article.ID, input.qty)
		if err != nil {
			return err
		}
		stockBefore, stockAfter = updated.Stock-input.qty, updated.Stock
		return repos.Productions.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("production_id", p.ID).
		Str("article", p.ArticleRef).
		Int("quantite", p.Quantite).
		Int("stock_before", stockBefore).
		Int("stock_after", stockAfter).
		Msg("producción registrada")
	return toProductionResponse(p), nil
}

// Update reemplaza una producción. Sobre el mismo artículo aplica la diferencia de cantidad; al
// cambiar de artículo retira la cantidad anterior del original (puede fallar con stock insuficiente
// si ya se entregó) y suma la nueva al destino.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.ProductionRequest) (_ *dto.ProductionResponse, err error) {
	ctx, end := uc.obs.Start(ctx, "production.update",
		attribute.String("production.id", id),
		attribute.String("article.ref", in.ArticleRef),
		attribute.Int("quantite", in.Quantite),
	)
	defer end(&err)

	input, err := parseRequest(in)
	if err != nil {
		return nil, err
	}

	var (
		p      *entity.Production
		oldQty int
		oldRef string
	)
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		p, err = repos.Productions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producción %s", domain.ErrNotFound, id)
		}
		oldQty, oldRef = p.Quantite, p.ArticleRef

		article, err := resolveArticle(ctx, repos, input.ref)
		if err != nil {
			return err
		}
		if _, err := uc.ledger.Lock(ctx, repos.Stock, p.ArticleID, article.ID); err != nil {
			return err
		}
		if p.ArticleID == article.ID {
			// Mismo artículo: solo se aplica la diferencia neta.
			if delta := input.qty - p.Quantite; delta != 0 {
				if _, err := uc.ledger.Adjust(ctx, repos.Stock, article.ID, delta); err != nil {
					return err
				}
			}
		} else {
			if _, err := uc.ledger.Adjust(ctx, repos.Stock, p.ArticleID, -p.Quantite); err != nil {
				return err
			}
			if _, err := uc.ledger.Adjust(ctx, repos.Stock, article.ID, input.qty); err != nil {
				return err
			}
		}

		p.ArticleID = article.ID
		p.ArticleRef = article.Ref
		p.Quantite = input.qty
		p.DateProduction = input.date
		p.UpdatedAt = time.Now().UTC()
		return repos.Productions.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("production_id", p.ID).
		Str("article_before", oldRef).
		Str("article", p.ArticleRef).
		Int("quantite_before", oldQty).
		Int("quantite", p.Quantite).
		Msg("producción actualizada")
	return toProductionResponse(p), nil
}

// Delete retira del stock la cantidad producida y elimina el registro.
func (uc *UseCase) Delete(ctx context.Context, id string) (err error) {
	ctx, end := uc.obs.Start(ctx, "production.delete", attribute.String("production.id", id))
	defer end(&err)

	var (
		p     *entity.Production
		after int
	)
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		p, err = repos.Productions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producción %s", domain.ErrNotFound, id)
		}
		article, err := uc.ledger.Adjust(ctx, repos.Stock, p.ArticleID, -p.Quantite)
		if err != nil {
			return err
		}
		after = article.Stock
		return repos.Productions.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("production_id", id).
		Str("article", p.ArticleRef).
		Int("quantite", p.Quantite).
		Int("stock_after", after).
		Msg("producción eliminada")
	return nil
}

// GetByID obtiene una producción.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ProductionResponse, error) {
	p, err := uc.productions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producción %s", domain.ErrNotFound, id)
	}
	return toProductionResponse(p), nil
}

// List busca producciones (más recientes primero) por artículo, fecha, año/mes o rango.
func (uc *UseCase) List(ctx context.Context, q dto.ProductionQuery) (*dto.ProductionListResponse, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.productions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductionResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductionResponse(p))
	}
	return &dto.ProductionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

func buildFilter(q dto.ProductionQuery) (repository.ProductionFilter, error) {
	f := repository.ProductionFilter{ArticleRef: dominv.NormalizeKey(q.ArticleRef)}
	f.Limit, f.Offset = dto.NormalizePage(q.Limit, q.Offset)

	switch {
	case q.Date != "":
		d, err := dominv.ParseDate(q.Date)
		if err != nil {
			return f, err
		}
		f.From, f.To = &d, &d
	case q.Year != 0 && q.Month != 0:
		from, next, err := dominv.MonthRange(q.Year, q.Month)
		if err != nil {
			return f, err
		}
		to := next.AddDate(0, 0, -1)
		f.From, f.To = &from, &to
	case q.Year != 0:
		from, _, err := dominv.MonthRange(q.Year, 1)
		if err != nil {
			return f, err
		}
		to := from.AddDate(1, 0, -1)
		f.From, f.To = &from, &to
	case q.Month != 0:
		return f, fmt.Errorf("%w: month requiere year", domain.ErrInvalidInput)
	default:
		if q.From != "" {
			d, err := dominv.ParseDate(q.From)
			if err != nil {
				return f, err
			}
			f.From = &d
		}
		if q.To != "" {
			d, err := dominv.ParseDate(q.To)
			if err != nil {
				return f, err
			}
			f.To = &d
		}
	}
	return f, nil
}

func resolveArticle(ctx context.Context, repos inventory.TxRepos, ref string) (*entity.Article, error) {
	article, err := repos.Articles.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, fmt.Errorf("%w: artículo %q", domain.ErrNotFound, ref)
	}
	return article, nil
}

func toProductionResponse(p *entity.Production) *dto.ProductionResponse {
	return &dto.ProductionResponse{
		ID:             p.ID,
		ArticleID:      p.ArticleID,
		ArticleRef:     p.ArticleRef,
		Quantite:       p.Quantite,
		DateProduction: dominv.FormatDate(p.DateProduction),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

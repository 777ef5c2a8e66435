package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	dominv "github.com/jhoicas/Stock-api/internal/domain/inventory"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// ArticleUseCase casos de uso CRUD para artículos. Stock solo cambia vía producciones y livraisons.
type ArticleUseCase struct {
	repo repository.ArticleRepository
	log  *logger.Logger
}

// NewArticleUseCase construye el caso de uso.
func NewArticleUseCase(repo repository.ArticleRepository, log *logger.Logger) *ArticleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ArticleUseCase{repo: repo, log: log.Component("article")}
}

// Create crea un nuevo artículo. Stock inicia en 0.
func (uc *ArticleUseCase) Create(ctx context.Context, in dto.CreateArticleRequest) (*dto.ArticleResponse, error) {
	ref, err := dominv.RequireKey("ref", in.Ref)
	if err != nil {
		return nil, err
	}
	if err := validateArticleValues(in.UnitPrice, in.MPQ); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: la referencia %q ya existe", domain.ErrDuplicate, ref)
	}
	now := time.Now().UTC()
	article := &entity.Article{
		ID:          uuid.New().String(),
		Ref:         ref,
		Designation: in.Designation,
		Famille:     in.Famille,
		SousFamille: in.SousFamille,
		TypeProcess: in.TypeProcess,
		TypeProduit: in.TypeProduit,
		UnitPrice:   in.UnitPrice,
		MPQ:         in.MPQ,
		Stock:       0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, article); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: la referencia %q ya existe", domain.ErrDuplicate, ref)
		}
		return nil, err
	}
	uc.log.Info().Str("article_id", article.ID).Str("ref", article.Ref).Msg("artículo creado")
	return toArticleResponse(article), nil
}

// GetByID obtiene un artículo por ID.
func (uc *ArticleUseCase) GetByID(ctx context.Context, id string) (*dto.ArticleResponse, error) {
	article, err := uc.getArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	return toArticleResponse(article), nil
}

// Update actualiza los campos descriptivos. El stock no es editable.
func (uc *ArticleUseCase) Update(ctx context.Context, id string, in dto.UpdateArticleRequest) (*dto.ArticleResponse, error) {
	article, err := uc.getArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Ref != nil {
		ref, err := dominv.RequireKey("ref", *in.Ref)
		if err != nil {
			return nil, err
		}
		if ref != article.Ref {
			other, err := uc.repo.GetByRef(ctx, ref)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, fmt.Errorf("%w: la referencia %q ya existe", domain.ErrDuplicate, ref)
			}
		}
		article.Ref = ref
	}
	if in.Designation != nil {
		article.Designation = *in.Designation
	}
	if in.Famille != nil {
		article.Famille = *in.Famille
	}
	if in.SousFamille != nil {
		article.SousFamille = *in.SousFamille
	}
	if in.TypeProcess != nil {
		article.TypeProcess = *in.TypeProcess
	}
	if in.TypeProduit != nil {
		article.TypeProduit = *in.TypeProduit
	}
	if in.UnitPrice != nil {
		article.UnitPrice = *in.UnitPrice
	}
	if in.MPQ != nil {
		article.MPQ = *in.MPQ
	}
	if err := validateArticleValues(article.UnitPrice, article.MPQ); err != nil {
		return nil, err
	}
	article.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return toArticleResponse(article), nil
}

// List lista artículos con paginación (orden por referencia).
func (uc *ArticleUseCase) List(ctx context.Context, limit, offset int) (*dto.ArticleListResponse, error) {
	limit, offset = dto.NormalizePage(limit, offset)
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ArticleResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toArticleResponse(a))
	}
	return &dto.ArticleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un artículo sin producciones, commandes ni livraisons.
func (uc *ArticleUseCase) Delete(ctx context.Context, id string) error {
	article, err := uc.getArticle(ctx, id)
	if err != nil {
		return err
	}
	n, err := uc.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el artículo %s tiene %d movimiento(s) o commande(s)", domain.ErrConflict, article.Ref, n)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("article_id", id).Str("ref", article.Ref).Msg("artículo eliminado")
	return nil
}

func (uc *ArticleUseCase) getArticle(ctx context.Context, id string) (*entity.Article, error) {
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	return article, nil
}

func validateArticleValues(price decimal.Decimal, mpq int) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: prix_unitaire no puede ser negativo", domain.ErrInvalidInput)
	}
	if mpq < 0 {
		return fmt.Errorf("%w: mpq no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

func toArticleResponse(a *entity.Article) *dto.ArticleResponse {
	return &dto.ArticleResponse{
		ID:          a.ID,
		Ref:         a.Ref,
		Designation: a.Designation,
		Famille:     a.Famille,
		SousFamille: a.SousFamille,
		TypeProcess: a.TypeProcess,
		TypeProduit: a.TypeProduit,
		UnitPrice:   a.UnitPrice,
		MPQ:         a.MPQ,
		Stock:       a.Stock,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

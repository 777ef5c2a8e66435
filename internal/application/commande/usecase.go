// Package commande gestiona las commandes de clientes y su estado abierto/cerrado.
package commande

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// UseCase registra commandes y recalcula IsActive a partir de lo entregado.
type UseCase struct {
	txRunner   inventory.TxRunner
	commandes  repository.CommandeRepository
	livraisons repository.LivraisonRepository
	obs        inventory.Observer
	log        *logger.Logger
}

// NewUseCase construye el caso de uso. Los repositorios se usan solo para lecturas.
func NewUseCase(
	txRunner inventory.TxRunner,
	commandes repository.CommandeRepository,
	livraisons repository.LivraisonRepository,
	obs inventory.Observer,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:   txRunner,
		commandes:  commandes,
		livraisons: livraisons,
		obs:        obs,
		log:        log.Component("commande"),
	}
}

type commandeInput struct {
	articleRef  string
	clientName  string
	orderNumber string
	qty         int
	typ         string
	date        time.Time
}

func parseRequest(in dto.CommandeRequest) (commandeInput, error) {
	var (
		c   commandeInput
		err error
	)
	if c.articleRef, err = dominv.RequireKey("article_ref", in.ArticleRef); err != nil {
		return c, err
	}
	if c.clientName, err = dominv.RequireKey("client_name", in.ClientName); err != nil {
		return c, err
	}
	if c.orderNumber, err = dominv.RequireKey("numero_commande_client", in.NumeroCommandeClient); err != nil {
		return c, err
	}
	if err = dominv.ValidateQuantity(in.Quantite); err != nil {
		return c, err
	}
	c.qty = in.Quantite
	c.typ = strings.ToUpper(strings.TrimSpace(in.TypeCommande))
	if !entity.IsValidCommandeType(c.typ) {
		return c, fmt.Errorf("%w: type_commande %q (FIRM o PLANNED)", domain.ErrInvalidInput, in.TypeCommande)
	}
	if c.date, err = dominv.ParseDate(in.DateSouhaitee); err != nil {
		return c, err
	}
	return c, nil
}

// Create registra una commande activa. (artículo, cliente, número) debe ser único.
func (uc *UseCase) Create(ctx context.Context, in dto.CommandeRequest) (_ *dto.CommandeDetailResponse, err error) {
	ctx, end := uc.obs.Start(ctx, "commande.create",
		attribute.String("article.ref", in.ArticleRef),
		attribute.String("client.name", in.ClientName),
		attribute.String("commande.numero", in.NumeroCommandeClient),
	)
	defer end(&err)

	input, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &entity.Commande{
		ID:            uuid.New().String(),
		OrderNumber:   input.orderNumber,
		Quantite:      input.qty,
		Type:          input.typ,
		DateSouhaitee: input.date,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		article, client, err := resolveParties(ctx, repos, input.articleRef, input.clientName)
		if err != nil {
			return err
		}
		c.ArticleID, c.ArticleRef = article.ID, article.Ref
		c.ClientID, c.ClientName = client.ID, client.Name

		existing, err := repos.Commandes.GetByNaturalKey(ctx, article.ID, client.ID, c.OrderNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicateError(c)
		}
		if err := repos.Commandes.Create(ctx, c); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return duplicateError(c)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("commande_id", c.ID).
		Str("article", c.ArticleRef).
		Str("client", c.ClientName).
		Str("numero", c.OrderNumber).
		Int("quantite", c.Quantite).
		Str("type", c.Type).
		Msg("commande registrada")
	return toDetailResponse(c, 0), nil
}

// Update modifica la commande y la reconcilia. No se puede cambiar artículo ni cliente
// de una commande que ya tiene livraisons.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.CommandeRequest) (_ *dto.CommandeDetailResponse, err error) {
	ctx, end := uc.obs.Start(ctx, "commande.update", attribute.String("commande.id", id))
	defer end(&err)

	input, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	var (
		c         *entity.Commande
		delivered int
		wasActive bool
	)
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		c, err = lockCommande(ctx, repos, id)
		if err != nil {
			return err
		}
		wasActive = c.IsActive
		article, client, err := resolveParties(ctx, repos, input.articleRef, input.clientName)
		if err != nil {
			return err
		}
		if article.ID != c.ArticleID || client.ID != c.ClientID {
			n, err := repos.Livraisons.CountByCommande(ctx, c.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: la commande %s tiene %d livraison(s); no se puede cambiar artículo ni cliente", domain.ErrConflict, c.OrderNumber, n)
			}
		}
		if article.ID != c.ArticleID || client.ID != c.ClientID || input.orderNumber != c.OrderNumber {
			other, err := repos.Commandes.GetByNaturalKey(ctx, article.ID, client.ID, input.orderNumber)
			if err != nil {
				return err
			}
			if other != nil && other.ID != c.ID {
				return duplicateError(other)
			}
		}

		c.ArticleID, c.ArticleRef = article.ID, article.Ref
		c.ClientID, c.ClientName = client.ID, client.Name
		c.OrderNumber = input.orderNumber
		c.Quantite = input.qty
		c.Type = input.typ
		c.DateSouhaitee = input.date
		c.UpdatedAt = time.Now().UTC()
		if err := repos.Commandes.Update(ctx, c); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return duplicateError(c)
			}
			return err
		}
		c, delivered, err = uc.ReconcileInTx(ctx, repos, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("commande_id", c.ID).
		Int("quantite", c.Quantite).
		Int("livree", delivered).
		Bool("active_before", wasActive).
		Bool("active", c.IsActive).
		Msg("commande actualizada")
	return toDetailResponse(c, delivered), nil
}

// Delete elimina una commande sin livraisons. Con livraisons se rechaza (no hay borrado en cascada).
func (uc *UseCase) Delete(ctx context.Context, id string) (err error) {
	ctx, end := uc.obs.Start(ctx, "commande.delete", attribute.String("commande.id", id))
	defer end(&err)

	var c *entity.Commande
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		c, err = lockCommande(ctx, repos, id)
		if err != nil {
			return err
		}
		n, err := repos.Livraisons.CountByCommande(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: la commande %s tiene %d livraison(s)", domain.ErrConflict, c.OrderNumber, n)
		}
		return repos.Commandes.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("commande_id", id).Str("numero", c.OrderNumber).Msg("commande eliminada")
	return nil
}

// Reconcile recalcula IsActive de la commande en su propia transacción.
func (uc *UseCase) Reconcile(ctx context.Context, id string) (_ *dto.CommandeDetailResponse, err error) {
	ctx, end := uc.obs.Start(ctx, "commande.reconcile", attribute.String("commande.id", id))
	defer end(&err)

	var (
		c         *entity.Commande
		delivered int
	)
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		c, delivered, err = uc.ReconcileInTx(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toDetailResponse(c, delivered), nil
}

// ReconcileInTx usa los repositorios de la transacción del caller (livraisons):
// IsActive = entregado < cantidad, persistido solo si cambia.
func (uc *UseCase) ReconcileInTx(ctx context.Context, repos inventory.TxRepos, id string) (*entity.Commande, int, error) {
	c, err := lockCommande(ctx, repos, id)
	if err != nil {
		return nil, 0, err
	}
	delivered, err := repos.Livraisons.SumDeliveredByCommande(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	open := dominv.IsOpen(c.Quantite, delivered)
	if open != c.IsActive {
		if err := repos.Commandes.SetActive(ctx, id, open); err != nil {
			return nil, 0, err
		}
		uc.log.Debug().
			Str("commande_id", id).
			Int("livree", delivered).
			Int("quantite", c.Quantite).
			Bool("active", open).
			Msg("estado de commande recalculado")
		c.IsActive = open
	}
	return c, delivered, nil
}

// GetByID devuelve la commande con lo entregado y lo pendiente.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.CommandeDetailResponse, error) {
	c, err := uc.commandes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: commande %s", domain.ErrNotFound, id)
	}
	delivered, err := uc.livraisons.SumDeliveredByCommande(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDetailResponse(c, delivered), nil
}

// List busca commandes (por defecto solo activas) por artículo, cliente, fecha deseada o fecha de alta.
func (uc *UseCase) List(ctx context.Context, q dto.CommandeQuery) (*dto.CommandeListResponse, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = dto.NormalizePage(q.Limit, q.Offset)
	list, err := uc.commandes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CommandeResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toResponse(c))
	}
	return &dto.CommandeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Summary totaliza las commandes que cumplen los mismos filtros que List (sin paginar).
func (uc *UseCase) Summary(ctx context.Context, q dto.CommandeQuery) (*dto.CommandeSummaryResponse, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	s, err := uc.commandes.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.CommandeSummaryResponse{
		TotalQuantite:   s.TotalQuantite,
		NombreCommandes: s.NombreCommandes,
		QuantiteFirm:    s.QuantiteFirm,
		QuantitePlanned: s.QuantitePlanned,
	}, nil
}

func buildFilter(q dto.CommandeQuery) (repository.CommandeFilter, error) {
	f := repository.CommandeFilter{
		ArticleRef: dominv.NormalizeKey(q.ArticleRef),
		ClientName: dominv.NormalizeKey(q.ClientName),
		ActiveOnly: !q.IncludeInactive,
	}
	if q.DateSouhaitee != "" {
		d, err := dominv.ParseDate(q.DateSouhaitee)
		if err != nil {
			return f, err
		}
		f.DateSouhaitee = &d
	}
	if q.DateAjout != "" {
		d, err := dominv.ParseDate(q.DateAjout)
		if err != nil {
			return f, err
		}
		f.CreatedOn = &d
	}
	return f, nil
}

func lockCommande(ctx context.Context, repos inventory.TxRepos, id string) (*entity.Commande, error) {
	c, err := repos.Commandes.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: commande %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// resolveParties resuelve artículo y cliente por su clave natural (ya normalizada).
func resolveParties(ctx context.Context, repos inventory.TxRepos, articleRef, clientName string) (*entity.Article, *entity.Client, error) {
	article, err := repos.Articles.GetByRef(ctx, articleRef)
	if err != nil {
		return nil, nil, err
	}
	if article == nil {
		return nil, nil, fmt.Errorf("%w: artículo %q", domain.ErrNotFound, articleRef)
	}
	client, err := repos.Clients.GetByName(ctx, clientName)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, nil, fmt.Errorf("%w: cliente %q", domain.ErrNotFound, clientName)
	}
	return article, client, nil
}

func duplicateError(c *entity.Commande) error {
	return fmt.Errorf("%w: ya existe la commande %q para el artículo %s y el cliente %s",
		domain.ErrConflict, c.OrderNumber, c.ArticleRef, c.ClientName)
}

func toResponse(c *entity.Commande) dto.CommandeResponse {
	return dto.CommandeResponse{
		ID:                   c.ID,
		ArticleID:            c.ArticleID,
		ArticleRef:           c.ArticleRef,
		ClientID:             c.ClientID,
		ClientName:           c.ClientName,
		NumeroCommandeClient: c.OrderNumber,
		Quantite:             c.Quantite,
		TypeCommande:         c.Type,
		DateSouhaitee:        dominv.FormatDate(c.DateSouhaitee),
		IsActive:             c.IsActive,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

func toDetailResponse(c *entity.Commande, delivered int) *dto.CommandeDetailResponse {
	return &dto.CommandeDetailResponse{
		CommandeResponse: toResponse(c),
		QuantiteLivree:   delivered,
		QuantiteRestante: dominv.Remaining(c.Quantite, delivered),
	}
}

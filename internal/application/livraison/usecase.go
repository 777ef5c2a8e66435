// Package livraison registra las salidas de stock que cumplen commandes y numera los bons de livraison.
package livraison

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Stock-api/internal/application/commande"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/application/ports"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	dominv "github.com/jhoicas/Stock-api/internal/domain/inventory"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

const publishTimeout = 3 * time.Second

// UseCase crea, edita y elimina livraisons manteniendo coherentes el stock del artículo,
// el estado de la commande y la numeración de BL, todo en una transacción por operación.
type UseCase struct {
	txRunner   inventory.TxRunner
	ledger     *inventory.StockLedger
	tracker    *commande.UseCase
	livraisons repository.LivraisonRepository
	publisher  ports.DeliveryEventPublisher
	obs        inventory.Observer
	log        *logger.Logger
}

// NewUseCase construye el caso de uso. publisher puede ser nil (no se publican eventos).
func NewUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.StockLedger,
	tracker *commande.UseCase,
	livraisons repository.LivraisonRepository,
	publisher ports.DeliveryEventPublisher,
	obs inventory.Observer,
	log *logger.Logger,
) *UseCase {
	if publisher == nil {
		publisher = ports.NopPublisher()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:   txRunner,
		ledger:     ledger,
		tracker:    tracker,
		livraisons: livraisons,
		publisher:  publisher,
		obs:        obs,
		log:        log.Component("livraison"),
	}
}

type livraisonInput struct {
	articleRef  string
	clientName  string
	orderNumber string
	qty         int
	date        time.Time
}

func parseRequest(in dto.LivraisonRequest) (livraisonInput, error) {
	var (
		l   livraisonInput
		err error
	)
	if l.articleRef, err = dominv.RequireKey("article_ref", in.ArticleRef); err != nil {
		return l, err
	}
	if l.clientName, err = dominv.RequireKey("client_name", in.ClientName); err != nil {
		return l, err
	}
	if l.orderNumber, err = dominv.RequireKey("numero_commande_client", in.NumeroCommandeClient); err != nil {
		return l, err
	}
	if err = dominv.ValidateQuantity(in.QuantiteLivree); err != nil {
		return l, err
	}
	l.qty = in.QuantiteLivree
	if l.date, err = dominv.ParseDate(in.DateLivraison); err != nil {
		return l, err
	}
	return l, nil
}

// target artículo, cliente y commande resueltos para una livraison.
type target struct {
	article  *entity.Article
	client   *entity.Client
	commande *entity.Commande
}

func resolveTarget(ctx context.Context, repos inventory.TxRepos, in livraisonInput) (target, error) {
	var t target
	article, err := repos.Articles.GetByRef(ctx, in.articleRef)
	if err != nil {
		return t, err
	}
	if article == nil {
		return t, fmt.Errorf("%w: artículo %q", domain.ErrNotFound, in.articleRef)
	}
	client, err := repos.Clients.GetByName(ctx, in.clientName)
	if err != nil {
		return t, err
	}
	if client == nil {
		return t, fmt.Errorf("%w: cliente %q", domain.ErrNotFound, in.clientName)
	}
	c, err := repos.Commandes.GetByNaturalKey(ctx, article.ID, client.ID, in.orderNumber)
	if err != nil {
		return t, err
	}
	if c == nil {
		return t, fmt.Errorf("%w: commande %q del cliente %s para el artículo %s",
			domain.ErrNotFound, in.orderNumber, client.Name, article.Ref)
	}
	return target{article: article, client: client, commande: c}, nil
}

// Create registra una livraison: valida stock y cantidad pendiente, asigna el número de BL,
// descuenta el stock y reconcilia la commande.
func (uc *UseCase) Create(ctx context.Context, in dto.LivraisonRequest) (_ *dto.LivraisonResponse, err error) {
	ctx, end := uc.obs.Start(ctx, "livraison.create",
		attribute.String("article.ref", in.ArticleRef),
		attribute.String("client.name", in.ClientName),
		attribute.String("commande.numero", in.NumeroCommandeClient),
		attribute.Int("quantite", in.QuantiteLivree),
	)
	defer end(&err)

	input, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	l := &entity.Livraison{
		ID:             uuid.New().String(),
		QuantiteLivree: input.qty,
		DateLivraison:  input.date,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	var (
		stockAfter int
		active     bool
	)
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		t, err := resolveTarget(ctx, repos, input)
		if err != nil {
			return err
		}
		// Orden de bloqueo común a todas las operaciones: artículos, luego commandes.
		if _, err := uc.ledger.Lock(ctx, repos.Stock, t.article.ID); err != nil {
			return err
		}
		c, err := lockCommandes(ctx, repos, t.commande.ID)
		if err != nil {
			return err
		}

		ok, available, err := uc.ledger.CanDeduct(ctx, repos.Stock, t.article.ID, input.qty)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: artículo %s disponible %d, solicitado %d",
				domain.ErrInsufficientStock, t.article.Ref, available, input.qty)
		}
		delivered, err := repos.Livraisons.SumDeliveredByCommande(ctx, c.ID)
		if err != nil {
			return err
		}
		if remaining := dominv.Remaining(c.Quantite, delivered); input.qty > remaining {
			return fmt.Errorf("%w: commande %s pendiente %d, solicitado %d",
				domain.ErrQuantityExceeded, c.OrderNumber, remaining, input.qty)
		}

		numero, err := nextNumeroBL(ctx, repos, input.date.Year())
		if err != nil {
			return err
		}
		l.NumeroBL = numero
		l.ArticleID, l.ArticleRef = t.article.ID, t.article.Ref
		l.ClientID, l.ClientName = t.client.ID, t.client.Name
		l.CommandeID, l.OrderNumber = c.ID, c.OrderNumber
		if err := repos.Livraisons.Create(ctx, l); err != nil {
			return err
		}

		article, err := uc.ledger.Adjust(ctx, repos.Stock, t.article.ID, -input.qty)
		if err != nil {
			return err
		}
		stockAfter = article.Stock

		reconciled, _, err := uc.tracker.ReconcileInTx(ctx, repos, c.ID)
		if err != nil {
			return err
		}
		active = reconciled.IsActive
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("livraison_id", l.ID).
		Str("numero_bl", l.NumeroBL).
		Str("article", l.ArticleRef).
		Str("client", l.ClientName).
		Str("commande", l.OrderNumber).
		Int("quantite", l.QuantiteLivree).
		Int("stock_after", stockAfter).
		Bool("commande_active", active).
		Msg("livraison registrada")
	uc.publish(ctx, ports.EventLivraisonCreated, l, stockAfter, active)
	return toResponse(l), nil
}

// Update reemplaza una livraison: devuelve al stock la cantidad anterior, valida contra el estado
// resultante y contra lo pendiente de la commande destino (sin contar esta livraison), aplica la
// nueva salida y reconcilia la commande anterior y la nueva. El número de BL no cambia.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.LivraisonRequest) (_ *dto.LivraisonResponse, err error) {
	ctx, end := uc.obs.Start(ctx, "livraison.update",
		attribute.String("livraison.id", id),
		attribute.Int("quantite", in.QuantiteLivree),
	)
	defer end(&err)

	input, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	var (
		l          *entity.Livraison
		oldQty     int
		stockAfter int
		active     bool
	)
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		l, err = repos.Livraisons.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("%w: livraison %s", domain.ErrNotFound, id)
		}
		oldQty = l.QuantiteLivree
		oldArticleID, oldCommandeID := l.ArticleID, l.CommandeID

		t, err := resolveTarget(ctx, repos, input)
		if err != nil {
			return err
		}
		if _, err := uc.ledger.Lock(ctx, repos.Stock, oldArticleID, t.article.ID); err != nil {
			return err
		}
		c, err := lockCommandes(ctx, repos, oldCommandeID, t.commande.ID)
		if err != nil {
			return err
		}

		if _, err := uc.ledger.Adjust(ctx, repos.Stock, oldArticleID, oldQty); err != nil {
			return err
		}
		ok, available, err := uc.ledger.CanDeduct(ctx, repos.Stock, t.article.ID, input.qty)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: artículo %s disponible %d, solicitado %d",
				domain.ErrInsufficientStock, t.article.Ref, available, input.qty)
		}
		delivered, err := repos.Livraisons.SumDeliveredByCommande(ctx, c.ID)
		if err != nil {
			return err
		}
		if c.ID == oldCommandeID {
			delivered -= oldQty
		}
		if remaining := dominv.Remaining(c.Quantite, delivered); input.qty > remaining {
			return fmt.Errorf("%w: commande %s pendiente %d, solicitado %d",
				domain.ErrQuantityExceeded, c.OrderNumber, remaining, input.qty)
		}
		article, err := uc.ledger.Adjust(ctx, repos.Stock, t.article.ID, -input.qty)
		if err != nil {
			return err
		}
		stockAfter = article.Stock

		l.ArticleID, l.ArticleRef = t.article.ID, t.article.Ref
		l.ClientID, l.ClientName = t.client.ID, t.client.Name
		l.CommandeID, l.OrderNumber = c.ID, c.OrderNumber
		l.QuantiteLivree = input.qty
		l.DateLivraison = input.date
		l.UpdatedAt = time.Now().UTC()
		if err := repos.Livraisons.Update(ctx, l); err != nil {
			return err
		}

		if oldCommandeID != c.ID {
			if _, _, err := uc.tracker.ReconcileInTx(ctx, repos, oldCommandeID); err != nil {
				return err
			}
		}
		reconciled, _, err := uc.tracker.ReconcileInTx(ctx, repos, c.ID)
		if err != nil {
			return err
		}
		active = reconciled.IsActive
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("livraison_id", l.ID).
		Str("numero_bl", l.NumeroBL).
		Str("article", l.ArticleRef).
		Int("quantite_before", oldQty).
		Int("quantite", l.QuantiteLivree).
		Int("stock_after", stockAfter).
		Bool("commande_active", active).
		Msg("livraison actualizada")
	uc.publish(ctx, ports.EventLivraisonUpdated, l, stockAfter, active)
	return toResponse(l), nil
}

// Delete devuelve la cantidad al stock, reabre la commande sin recalcular y elimina la livraison.
// El número de BL no se reutiliza.
func (uc *UseCase) Delete(ctx context.Context, id string) (err error) {
	ctx, end := uc.obs.Start(ctx, "livraison.delete", attribute.String("livraison.id", id))
	defer end(&err)

	var (
		l          *entity.Livraison
		stockAfter int
	)
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		l, err = repos.Livraisons.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("%w: livraison %s", domain.ErrNotFound, id)
		}
		article, err := uc.ledger.Adjust(ctx, repos.Stock, l.ArticleID, l.QuantiteLivree)
		if err != nil {
			return err
		}
		stockAfter = article.Stock
		if err := repos.Commandes.SetActive(ctx, l.CommandeID, true); err != nil {
			return err
		}
		return repos.Livraisons.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("livraison_id", id).
		Str("numero_bl", l.NumeroBL).
		Str("article", l.ArticleRef).
		Int("quantite", l.QuantiteLivree).
		Int("stock_after", stockAfter).
		Msg("livraison eliminada, commande reabierta")
	uc.publish(ctx, ports.EventLivraisonDeleted, l, stockAfter, true)
	return nil
}

// GetByID obtiene una livraison.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.LivraisonResponse, error) {
	l, err := uc.livraisons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: livraison %s", domain.ErrNotFound, id)
	}
	return toResponse(l), nil
}

// List busca livraisons por artículo, cliente, número de commande y rango de fechas.
func (uc *UseCase) List(ctx context.Context, q dto.LivraisonQuery) (*dto.LivraisonListResponse, error) {
	f := repository.LivraisonFilter{
		ArticleRef:  dominv.NormalizeKey(q.ArticleRef),
		ClientName:  dominv.NormalizeKey(q.ClientName),
		OrderNumber: dominv.NormalizeKey(q.Commande),
	}
	f.Limit, f.Offset = dto.NormalizePage(q.Limit, q.Offset)
	if q.From != "" {
		d, err := dominv.ParseDate(q.From)
		if err != nil {
			return nil, err
		}
		f.From = &d
	}
	if q.To != "" {
		d, err := dominv.ParseDate(q.To)
		if err != nil {
			return nil, err
		}
		f.To = &d
	}
	list, err := uc.livraisons.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LivraisonResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toResponse(l))
	}
	return &dto.LivraisonListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// nextNumeroBL reserva el siguiente número del año bloqueando su contador. La primera vez que se
// usa un año, el contador arranca desde el mayor número ya almacenado para ese año.
func nextNumeroBL(ctx context.Context, repos inventory.TxRepos, year int) (string, error) {
	seq, err := repos.Sequences.GetForUpdate(ctx, year)
	if err != nil {
		return "", err
	}
	if seq == nil {
		numeros, err := repos.Livraisons.ListNumerosByYear(ctx, year)
		if err != nil {
			return "", err
		}
		last, err := dominv.MaxSequence(numeros, year)
		if err != nil {
			return "", err
		}
		if err := repos.Sequences.Init(ctx, year, last); err != nil {
			return "", err
		}
		if seq, err = repos.Sequences.GetForUpdate(ctx, year); err != nil {
			return "", err
		}
		if seq == nil {
			return "", fmt.Errorf("contador de BL %d no disponible tras inicializarlo", year)
		}
	}
	if seq.LastSequence < 0 {
		return "", fmt.Errorf("%w: contador de BL %d con valor %d", domain.ErrDataCorruption, year, seq.LastSequence)
	}
	seq.LastSequence++
	if err := repos.Sequences.Save(ctx, seq); err != nil {
		return "", err
	}
	return dominv.FormatNumeroBL(seq.LastSequence, year), nil
}

// lockCommandes bloquea las commandes en orden de id y devuelve la última pedida.
func lockCommandes(ctx context.Context, repos inventory.TxRepos, ids ...string) (*entity.Commande, error) {
	ordered := append([]string(nil), ids...)
	if len(ordered) == 2 && ordered[1] < ordered[0] {
		ordered[0], ordered[1] = ordered[1], ordered[0]
	}
	locked := make(map[string]*entity.Commande, len(ordered))
	for _, id := range ordered {
		if _, ok := locked[id]; ok {
			continue
		}
		c, err := repos.Commandes.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: commande %s", domain.ErrNotFound, id)
		}
		locked[id] = c
	}
	return locked[ids[len(ids)-1]], nil
}

func (uc *UseCase) publish(ctx context.Context, typ string, l *entity.Livraison, stockAfter int, active bool) {
	event := ports.DeliveryEvent{
		Type:           typ,
		LivraisonID:    l.ID,
		NumeroBL:       l.NumeroBL,
		ArticleRef:     l.ArticleRef,
		ClientName:     l.ClientName,
		OrderNumber:    l.OrderNumber,
		QuantiteLivree: l.QuantiteLivree,
		DateLivraison:  dominv.FormatDate(l.DateLivraison),
		StockAfter:     stockAfter,
		CommandeActive: active,
		OccurredAt:     time.Now().UTC(),
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := uc.publisher.PublishDelivery(pubCtx, event); err != nil {
		uc.log.Warn().Err(err).Str("event", typ).Str("numero_bl", l.NumeroBL).Msg("no se pudo publicar el evento de livraison")
	}
}

func toResponse(l *entity.Livraison) *dto.LivraisonResponse {
	return &dto.LivraisonResponse{
		ID:                   l.ID,
		NumeroBL:             l.NumeroBL,
		ArticleID:            l.ArticleID,
		ArticleRef:           l.ArticleRef,
		ClientID:             l.ClientID,
		ClientName:           l.ClientName,
		CommandeID:           l.CommandeID,
		NumeroCommandeClient: l.OrderNumber,
		QuantiteLivree:       l.QuantiteLivree,
		DateLivraison:        dominv.FormatDate(l.DateLivraison),
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}

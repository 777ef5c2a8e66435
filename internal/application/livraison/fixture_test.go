package livraison_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/commande"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/application/livraison"
	"github.com/jhoicas/Stock-api/internal/application/ports"
	"github.com/jhoicas/Stock-api/internal/application/production"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.DeliveryEvent
}

func (p *recordingPublisher) PublishDelivery(_ context.Context, e ports.DeliveryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	ctx         context.Context
	store       *memory.Store
	articles    *usecase.ArticleUseCase
	clients     *usecase.ClientUseCase
	productions *production.UseCase
	commandes   *commande.UseCase
	livraisons  *livraison.UseCase
	pdf         *livraison.PDFUseCase
	events      *recordingPublisher
}

type fakePDF struct{ last livraison.DeliveryNote }

func (g *fakePDF) GenerateDeliveryNotePDF(_ context.Context, note livraison.DeliveryNote) ([]byte, error) {
	g.last = note
	return []byte("%PDF-fake"), nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	obs := inventory.NewObserver(nil, log)
	ledger := inventory.NewStockLedger(nil, log)
	events := &recordingPublisher{}

	articleRepo := memory.NewArticleRepository(store)
	clientRepo := memory.NewClientRepository(store)
	commandeRepo := memory.NewCommandeRepository(store)
	livraisonRepo := memory.NewLivraisonRepository(store)

	tracker := commande.NewUseCase(store, commandeRepo, livraisonRepo, obs, log)
	return &fixture{
		ctx:         context.Background(),
		store:       store,
		articles:    usecase.NewArticleUseCase(articleRepo, log),
		clients:     usecase.NewClientUseCase(clientRepo, log),
		productions: production.NewUseCase(store, ledger, memory.NewProductionRepository(store), obs, log),
		commandes:   tracker,
		livraisons:  livraison.NewUseCase(store, ledger, tracker, livraisonRepo, events, obs, log),
		pdf:         livraison.NewPDFUseCase(livraisonRepo, articleRepo, clientRepo, commandeRepo, &fakePDF{}),
		events:      events,
	}
}

func (f *fixture) article(t *testing.T, ref string) string {
	t.Helper()
	out, err := f.articles.Create(f.ctx, dto.CreateArticleRequest{Ref: ref, Designation: ref, UnitPrice: decimal.NewFromInt(10), MPQ: 1})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) client(t *testing.T, name string) string {
	t.Helper()
	out, err := f.clients.Create(f.ctx, dto.CreateClientRequest{NomComplet: name})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) produce(t *testing.T, ref string, qty int, date string) string {
	t.Helper()
	out, err := f.productions.Create(f.ctx, dto.ProductionRequest{ArticleRef: ref, Quantite: qty, DateProduction: date})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) order(t *testing.T, ref, client, numero string, qty int) string {
	t.Helper()
	out, err := f.commandes.Create(f.ctx, dto.CommandeRequest{
		ArticleRef: ref, ClientName: client, NumeroCommandeClient: numero,
		Quantite: qty, TypeCommande: "FIRM", DateSouhaitee: "2025-02-01",
	})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) deliver(ref, client, numero string, qty int, date string) (*dto.LivraisonResponse, error) {
	return f.livraisons.Create(f.ctx, dto.LivraisonRequest{
		ArticleRef: ref, ClientName: client, NumeroCommandeClient: numero,
		QuantiteLivree: qty, DateLivraison: date,
	})
}

func (f *fixture) stock(t *testing.T, articleID string) int {
	t.Helper()
	a, err := f.articles.GetByID(f.ctx, articleID)
	require.NoError(t, err)
	return a.Stock
}

func (f *fixture) commande(t *testing.T, id string) *dto.CommandeDetailResponse {
	t.Helper()
	c, err := f.commandes.GetByID(f.ctx, id)
	require.NoError(t, err)
	return c
}

// requireConservation comprueba stock == Σ producciones − Σ livraisons del artículo.
func (f *fixture) requireConservation(t *testing.T, articleID, ref string) {
	t.Helper()
	prods, err := memory.NewProductionRepository(f.store).List(f.ctx, repository.ProductionFilter{ArticleRef: ref})
	require.NoError(t, err)
	livs, err := memory.NewLivraisonRepository(f.store).List(f.ctx, repository.LivraisonFilter{ArticleRef: ref})
	require.NoError(t, err)
	total := 0
	for _, p := range prods {
		total += p.Quantite
	}
	for _, l := range livs {
		total -= l.QuantiteLivree
	}
	require.Equal(t, total, f.stock(t, articleID), "stock debe ser Σ producciones − Σ livraisons")
}

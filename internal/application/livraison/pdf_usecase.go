package livraison

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

// DeliveryNote datos que se imprimen en un bon de livraison.
type DeliveryNote struct {
	Livraison *entity.Livraison
	Article   *entity.Article
	Client    *entity.Client
	Commande  *entity.Commande
	Delivered int // total entregado de la commande, incluida esta livraison
}

// DeliveryNotePDFGenerator puerto de renderizado del bon de livraison (implementado en infrastructure/pdf).
type DeliveryNotePDFGenerator interface {
	GenerateDeliveryNotePDF(ctx context.Context, note DeliveryNote) ([]byte, error)
}

// PDFUseCase genera el bon de livraison (PDF) de una livraison existente.
type PDFUseCase struct {
	livraisonRepo repository.LivraisonRepository
	articleRepo   repository.ArticleRepository
	clientRepo    repository.ClientRepository
	commandeRepo  repository.CommandeRepository
	generator     DeliveryNotePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	livraisonRepo repository.LivraisonRepository,
	articleRepo repository.ArticleRepository,
	clientRepo repository.ClientRepository,
	commandeRepo repository.CommandeRepository,
	generator DeliveryNotePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		livraisonRepo: livraisonRepo,
		articleRepo:   articleRepo,
		clientRepo:    clientRepo,
		commandeRepo:  commandeRepo,
		generator:     generator,
	}
}

// DownloadDeliveryNote devuelve el PDF y un nombre de archivo derivado del número de BL
// ("BL-12-2025.pdf"). domain.ErrNotFound si la livraison no existe.
func (uc *PDFUseCase) DownloadDeliveryNote(ctx context.Context, livraisonID string) (pdfBytes []byte, filename string, err error) {
	l, err := uc.livraisonRepo.GetByID(ctx, livraisonID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener livraison: %w", err)
	}
	if l == nil {
		return nil, "", fmt.Errorf("%w: livraison %s", domain.ErrNotFound, livraisonID)
	}

	article, err := uc.articleRepo.GetByID(ctx, l.ArticleID)
	if err != nil || article == nil {
		return nil, "", fmt.Errorf("pdf: obtener artículo: %w", orCorrupt(err, "artículo", l.ArticleID))
	}
	client, err := uc.clientRepo.GetByID(ctx, l.ClientID)
	if err != nil || client == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", orCorrupt(err, "cliente", l.ClientID))
	}
	c, err := uc.commandeRepo.GetByID(ctx, l.CommandeID)
	if err != nil || c == nil {
		return nil, "", fmt.Errorf("pdf: obtener commande: %w", orCorrupt(err, "commande", l.CommandeID))
	}
	delivered, err := uc.livraisonRepo.SumDeliveredByCommande(ctx, c.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: total entregado: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateDeliveryNotePDF(ctx, DeliveryNote{
		Livraison: l,
		Article:   article,
		Client:    client,
		Commande:  c,
		Delivered: delivered,
	})
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, "BL-" + strings.ReplaceAll(l.NumeroBL, "/", "-") + ".pdf", nil
}

// orCorrupt: una livraison que apunta a un registro inexistente es un dato corrupto.
func orCorrupt(err error, kind, id string) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s %s referenciado por la livraison no existe", domain.ErrDataCorruption, kind, id)
}

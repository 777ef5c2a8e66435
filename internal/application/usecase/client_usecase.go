package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	dominv "github.com/jhoicas/Stock-api/internal/domain/inventory"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// ClientUseCase casos de uso para clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
	log  *logger.Logger
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, log *logger.Logger) *ClientUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ClientUseCase{repo: repo, log: log.Component("client")}
}

// Create crea un nuevo cliente. El nombre completo es único.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name, err := dominv.RequireKey("nom_complet", in.NomComplet)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el cliente %q ya existe", domain.ErrDuplicate, name)
	}
	now := time.Now().UTC()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     in.Email,
		Phone:     in.Telephone,
		Address:   in.Adresse,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: el cliente %q ya existe", domain.ErrDuplicate, name)
		}
		return nil, err
	}
	uc.log.Info().Str("client_id", client.ID).Str("name", client.Name).Msg("cliente creado")
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := uc.getClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Update actualiza un cliente; un cambio de nombre respeta la unicidad.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.getClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.NomComplet != nil {
		name, err := dominv.RequireKey("nom_complet", *in.NomComplet)
		if err != nil {
			return nil, err
		}
		if name != client.Name {
			other, err := uc.repo.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, fmt.Errorf("%w: el cliente %q ya existe", domain.ErrDuplicate, name)
			}
		}
		client.Name = name
	}
	if in.Email != nil {
		client.Email = *in.Email
	}
	if in.Telephone != nil {
		client.Phone = *in.Telephone
	}
	if in.Adresse != nil {
		client.Address = *in.Adresse
	}
	client.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes por nombre con paginación.
func (uc *ClientUseCase) List(ctx context.Context, limit, offset int) (*dto.ClientListResponse, error) {
	limit, offset = dto.NormalizePage(limit, offset)
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un cliente sin commandes ni livraisons.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	client, err := uc.getClient(ctx, id)
	if err != nil {
		return err
	}
	n, err := uc.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el cliente %s tiene %d commande(s) o livraison(s)", domain.ErrConflict, client.Name, n)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("client_id", id).Str("name", client.Name).Msg("cliente eliminado")
	return nil
}

func (uc *ClientUseCase) getClient(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return client, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:         c.ID,
		NomComplet: c.Name,
		Email:      c.Email,
		Telephone:  c.Phone,
		Adresse:    c.Address,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

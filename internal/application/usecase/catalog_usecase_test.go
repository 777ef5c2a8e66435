package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/auth"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

func ptr[T any](v T) *T { return &v }

func TestArticleUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewArticleUseCase(memory.NewArticleRepository(store), logger.Nop())

	a, err := uc.Create(ctx, dto.CreateArticleRequest{Ref: " ART-1 ", Designation: "Tornillo", UnitPrice: decimal.RequireFromString("1.25"), MPQ: 100})
	require.NoError(t, err)
	assert.Equal(t, "ART-1", a.Ref)
	assert.Equal(t, 0, a.Stock)

	_, err = uc.Create(ctx, dto.CreateArticleRequest{Ref: "ART-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.CreateArticleRequest{Ref: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateArticleRequest{Ref: "ART-X", MPQ: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateArticleRequest{Ref: "ART-X", UnitPrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	b, err := uc.Create(ctx, dto.CreateArticleRequest{Ref: "ART-2", Designation: "Tuerca"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, a.ID, dto.UpdateArticleRequest{Designation: ptr("Tornillo M6"), MPQ: ptr(50)})
	require.NoError(t, err)
	assert.Equal(t, "Tornillo M6", updated.Designation)
	assert.Equal(t, 50, updated.MPQ)
	assert.Equal(t, "ART-1", updated.Ref)

	_, err = uc.Update(ctx, a.ID, dto.UpdateArticleRequest{Ref: ptr("ART-2")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Update(ctx, "nope", dto.UpdateArticleRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "ART-1", list.Items[0].Ref)
	assert.Equal(t, 20, list.Page.Limit)

	require.NoError(t, uc.Delete(ctx, b.ID))
	_, err = uc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArticleUseCase_DeleteConMovimientos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewArticleUseCase(memory.NewArticleRepository(store), logger.Nop())

	a, err := uc.Create(ctx, dto.CreateArticleRequest{Ref: "ART-1"})
	require.NoError(t, err)
	require.NoError(t, memory.NewProductionRepository(store).Create(ctx, &entity.Production{
		ID: "p1", ArticleID: a.ID, Quantite: 5, DateProduction: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	assert.ErrorIs(t, uc.Delete(ctx, a.ID), domain.ErrConflict)
	_, err = uc.GetByID(ctx, a.ID)
	assert.NoError(t, err)
}

func TestClientUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewClientUseCase(memory.NewClientRepository(store), logger.Nop())

	c, err := uc.Create(ctx, dto.CreateClientRequest{NomComplet: "Société Générale", Email: "contact@sg.fr"})
	require.NoError(t, err)

	// Forma descompuesta de "é": resuelve al mismo cliente.
	_, err = uc.Create(ctx, dto.CreateClientRequest{NomComplet: "Socie\u0301te\u0301 Ge\u0301ne\u0301rale"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.CreateClientRequest{NomComplet: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	other, err := uc.Create(ctx, dto.CreateClientRequest{NomComplet: "Acme"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, c.ID, dto.UpdateClientRequest{Telephone: ptr("+33 1 23 45 67 89")})
	require.NoError(t, err)
	assert.Equal(t, "+33 1 23 45 67 89", updated.Telephone)
	assert.Equal(t, "contact@sg.fr", updated.Email)

	_, err = uc.Update(ctx, c.ID, dto.UpdateClientRequest{NomComplet: ptr("Acme")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	require.NoError(t, uc.Delete(ctx, other.ID))
	assert.ErrorIs(t, uc.Delete(ctx, other.ID), domain.ErrNotFound)
}

func TestUserUseCase_Update(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository(memory.NewStore())
	authUC := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: "s", ExpMinutes: 5}, logger.Nop())
	users := usecase.NewUserUseCase(repo, logger.Nop())

	admin, err := authUC.RegisterUser(ctx, dto.RegisterRequest{Email: "admin@example.com", Password: "secreto-123", Role: entity.RoleAdmin})
	require.NoError(t, err)
	other, err := authUC.RegisterUser(ctx, dto.RegisterRequest{Email: "c@example.com", Password: "secreto-123"})
	require.NoError(t, err)

	role := entity.RoleMagasinier
	name := "Carla"
	out, err := users.Update(ctx, admin.ID, other.ID, dto.UpdateUserRequest{Role: &role, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleMagasinier, out.Role)
	assert.Equal(t, "Carla", out.Name)

	pwd := "nueva-clave-1"
	_, err = users.Update(ctx, admin.ID, other.ID, dto.UpdateUserRequest{Password: &pwd})
	require.NoError(t, err)
	_, err = authUC.Login(ctx, dto.LoginRequest{Email: "c@example.com", Password: pwd})
	assert.NoError(t, err)

	inactive := false
	_, err = users.Update(ctx, admin.ID, admin.ID, dto.UpdateUserRequest{Active: &inactive})
	assert.ErrorIs(t, err, domain.ErrConflict)
	demoted := entity.RoleCommercial
	_, err = users.Update(ctx, admin.ID, admin.ID, dto.UpdateUserRequest{Role: &demoted})
	assert.ErrorIs(t, err, domain.ErrConflict)
	bad := "bodeguero"
	_, err = users.Update(ctx, admin.ID, other.ID, dto.UpdateUserRequest{Role: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = users.Update(ctx, admin.ID, "no-existe", dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := users.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

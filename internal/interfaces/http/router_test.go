package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/auth"
	"github.com/jhoicas/Stock-api/internal/application/commande"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/application/livraison"
	"github.com/jhoicas/Stock-api/internal/application/ports"
	"github.com/jhoicas/Stock-api/internal/application/production"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
	"github.com/jhoicas/Stock-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Stock-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Stock-api/pkg/jwt"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

type stubPDF struct{}

func (stubPDF) GenerateDeliveryNotePDF(context.Context, livraison.DeliveryNote) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

// newAPI monta el router completo sobre el almacenamiento en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	obs := inventory.NewObserver(nil, log)
	ledger := inventory.NewStockLedger(nil, log)

	articleRepo := memory.NewArticleRepository(store)
	clientRepo := memory.NewClientRepository(store)
	commandeRepo := memory.NewCommandeRepository(store)
	livraisonRepo := memory.NewLivraisonRepository(store)
	tracker := commande.NewUseCase(store, commandeRepo, livraisonRepo, obs, log)

	userRepo := memory.NewUserRepository(store)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log)
	require.NoError(t, authUC.EnsureAdmin(context.Background(), "admin@example.com", "admin-password"))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		UserUC:       usecase.NewUserUseCase(userRepo, log),
		ArticleUC:    usecase.NewArticleUseCase(articleRepo, log),
		ClientUC:     usecase.NewClientUseCase(clientRepo, log),
		ProductionUC: production.NewUseCase(store, ledger, memory.NewProductionRepository(store), obs, log),
		CommandeUC:   tracker,
		LivraisonUC:  livraison.NewUseCase(store, ledger, tracker, livraisonRepo, ports.NopPublisher(), obs, log),
		LivraisonPDF: livraison.NewPDFUseCase(livraisonRepo, articleRepo, clientRepo, commandeRepo, stubPDF{}),
		JWTSecret:    testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, role, method, path string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	return decode[dto.ErrorResponse](t, raw).Code
}

func seedCatalog(t *testing.T, app *fiber.App) {
	t.Helper()
	status, raw := call(t, app, pkgjwt.RoleAdmin, http.MethodPost, "/api/articles",
		map[string]any{"ref": "ART-1", "designation": "Pieza", "prix_unitaire": "12.50", "mpq": 1})
	require.Equal(t, http.StatusCreated, status, string(raw))
	status, raw = call(t, app, pkgjwt.RoleCommercial, http.MethodPost, "/api/clients",
		map[string]any{"nom_complet": "ACME"})
	require.Equal(t, http.StatusCreated, status, string(raw))
}

func TestRouter_CicloCompleto(t *testing.T) {
	app := newAPI(t)
	seedCatalog(t, app)
	status, raw := call(t, app, pkgjwt.RoleAdmin, http.MethodGet, "/api/articles", nil)
	require.Equal(t, http.StatusOK, status)
	articleID := decode[dto.ArticleListResponse](t, raw).Items[0].ID

	status, raw = call(t, app, pkgjwt.RoleMagasinier, http.MethodPost, "/api/productions",
		dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 100, DateProduction: "2025-01-10"})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = call(t, app, pkgjwt.RoleCommercial, http.MethodPost, "/api/commandes", dto.CommandeRequest{
		ArticleRef: "ART-1", ClientName: "ACME", NumeroCommandeClient: "PO-1",
		Quantite: 60, TypeCommande: "FIRM", DateSouhaitee: "2025-01-15",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	commandeID := decode[dto.CommandeDetailResponse](t, raw).ID

	status, raw = call(t, app, pkgjwt.RoleMagasinier, http.MethodPost, "/api/livraisons", dto.LivraisonRequest{
		ArticleRef: "ART-1", ClientName: "ACME", NumeroCommandeClient: "PO-1",
		QuantiteLivree: 60, DateLivraison: "2025-01-12",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	liv := decode[dto.LivraisonResponse](t, raw)
	assert.Equal(t, "1/2025", liv.NumeroBL)

	_, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodGet, "/api/articles/"+articleID, nil)
	assert.Equal(t, 40, decode[dto.ArticleResponse](t, raw).Stock)

	_, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodGet, "/api/commandes/"+commandeID, nil)
	detail := decode[dto.CommandeDetailResponse](t, raw)
	assert.False(t, detail.IsActive)
	assert.Equal(t, 60, detail.QuantiteLivree)
	assert.Equal(t, 0, detail.QuantiteRestante)

	req := httptest.NewRequest(http.MethodGet, "/api/livraisons/"+liv.ID+"/pdf", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleCommercial))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "BL-1-2025.pdf")
	resp.Body.Close()

	status, _ = call(t, app, pkgjwt.RoleMagasinier, http.MethodDelete, "/api/livraisons/"+liv.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)

	_, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodGet, "/api/articles/"+articleID, nil)
	assert.Equal(t, 100, decode[dto.ArticleResponse](t, raw).Stock)
	_, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodGet, "/api/commandes/"+commandeID, nil)
	assert.True(t, decode[dto.CommandeDetailResponse](t, raw).IsActive)

	status, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodGet, "/api/commandes/summary", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	summary := decode[dto.CommandeSummaryResponse](t, raw)
	assert.Equal(t, 1, summary.NombreCommandes)
	assert.Equal(t, 60, summary.QuantiteFirm)
}

func TestRouter_MapeoDeErrores(t *testing.T) {
	app := newAPI(t)
	seedCatalog(t, app)
	status, raw := call(t, app, pkgjwt.RoleCommercial, http.MethodPost, "/api/commandes", dto.CommandeRequest{
		ArticleRef: "ART-1", ClientName: "ACME", NumeroCommandeClient: "PO-1",
		Quantite: 10, TypeCommande: "FIRM", DateSouhaitee: "2025-01-15",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	deliver := func(qty int) (int, []byte) {
		return call(t, app, pkgjwt.RoleMagasinier, http.MethodPost, "/api/livraisons", dto.LivraisonRequest{
			ArticleRef: "ART-1", ClientName: "ACME", NumeroCommandeClient: "PO-1",
			QuantiteLivree: qty, DateLivraison: "2025-01-12",
		})
	}

	status, raw = deliver(5)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, raw))

	status, _ = call(t, app, pkgjwt.RoleMagasinier, http.MethodPost, "/api/productions",
		dto.ProductionRequest{ArticleRef: "ART-1", Quantite: 100, DateProduction: "2025-01-10"})
	require.Equal(t, http.StatusCreated, status)

	status, raw = deliver(11)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "QUANTITY_EXCEEDED", errorCode(t, raw))

	status, raw = deliver(0)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))

	status, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodGet, "/api/livraisons/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))

	status, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodPost, "/api/articles",
		map[string]any{"ref": "ART-1", "designation": "Otra", "prix_unitaire": "1", "mpq": 1})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errorCode(t, raw))

	status, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodGet, "/api/productions?year=2025&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, status, string(raw))

	req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewBufferString("{no json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_RBAC(t *testing.T) {
	app := newAPI(t)
	tests := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{"commercial no crea artículos", pkgjwt.RoleCommercial, http.MethodPost, "/api/articles", http.StatusForbidden},
		{"magasinier no crea commandes", pkgjwt.RoleMagasinier, http.MethodPost, "/api/commandes", http.StatusForbidden},
		{"commercial no registra livraisons", pkgjwt.RoleCommercial, http.MethodPost, "/api/livraisons", http.StatusForbidden},
		{"commercial no registra producciones", pkgjwt.RoleCommercial, http.MethodPost, "/api/productions", http.StatusForbidden},
		{"lectura abierta a cualquier rol", pkgjwt.RoleMagasinier, http.MethodGet, "/api/commandes", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, app, tt.role, tt.method, tt.path, map[string]any{})
			assert.Equal(t, tt.want, status)
		})
	}
}

func login(t *testing.T, app *fiber.App, email, password string) (int, dto.LoginResponse) {
	t.Helper()
	raw, err := json.Marshal(dto.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out dto.LoginResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestRouter_LoginYRegistro(t *testing.T) {
	app := newAPI(t)

	status, _ := login(t, app, "admin@example.com", "incorrecta")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, session := login(t, app, "  Admin@Example.com ", "admin-password")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, pkgjwt.RoleAdmin, session.User.Role)
	assert.Equal(t, testExpMin*60, session.ExpiresIn)

	// El token emitido por el login sirve en las rutas protegidas.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, raw := call(t, app, pkgjwt.RoleCommercial, http.MethodPost, "/api/auth/register",
		dto.RegisterRequest{Email: "mag@example.com", Password: "password-1", Role: pkgjwt.RoleMagasinier})
	assert.Equal(t, http.StatusForbidden, status, string(raw))

	status, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodPost, "/api/auth/register",
		dto.RegisterRequest{Email: "mag@example.com", Password: "password-1", Role: pkgjwt.RoleMagasinier})
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decode[dto.UserResponse](t, raw)
	assert.Equal(t, pkgjwt.RoleMagasinier, created.Role)

	status, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodPost, "/api/auth/register",
		dto.RegisterRequest{Email: "MAG@example.com", Password: "password-1"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errorCode(t, raw))

	status, session = login(t, app, "mag@example.com", "password-1")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, pkgjwt.RoleMagasinier, session.User.Role)

	inactive := false
	status, _ = call(t, app, pkgjwt.RoleAdmin, http.MethodPut, "/api/users/"+created.ID, dto.UpdateUserRequest{Active: &inactive})
	require.Equal(t, http.StatusOK, status)
	status, _ = login(t, app, "mag@example.com", "password-1")
	assert.Equal(t, http.StatusForbidden, status)

	status, raw = call(t, app, pkgjwt.RoleAdmin, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[dto.UserListResponse](t, raw).Items, 2)

	status, _ = call(t, app, pkgjwt.RoleMagasinier, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

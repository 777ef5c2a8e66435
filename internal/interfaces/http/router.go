package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stock-api/internal/application/auth"
	"github.com/jhoicas/Stock-api/internal/application/commande"
	"github.com/jhoicas/Stock-api/internal/application/livraison"
	"github.com/jhoicas/Stock-api/internal/application/production"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
	"github.com/jhoicas/Stock-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	ArticleUC    *usecase.ArticleUseCase
	ClientUC     *usecase.ClientUseCase
	ProductionUC *production.UseCase
	CommandeUC   *commande.UseCase
	LivraisonUC  *livraison.UseCase
	LivraisonPDF *livraison.PDFUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Salvo el login, todas requieren Bearer Token; las escrituras
// además un rol: usuarios y catálogo de artículos solo admin, clientes y commandes admin/commercial,
// producciones y livraisons admin/magasinier.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)

	adminOnly := RequireRole(jwt.RoleAdmin)
	sales := RequireRole(jwt.RoleAdmin, jwt.RoleCommercial)
	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleMagasinier)

	// Rutas públicas (sin JWT); se registran antes que el grupo protegido.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", requireAuth, adminOnly, authHandler.Register)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	protected := api.Group("/", requireAuth)

	users := protected.Group("/users", adminOnly)
	users.Get("/", authHandler.ListUsers)
	users.Put("/:id", authHandler.UpdateUser)

	articles := protected.Group("/articles")
	articleHandler := NewArticleHandler(deps.ArticleUC)
	articles.Get("/", articleHandler.List)
	articles.Get("/:id", articleHandler.GetByID)
	articles.Post("/", adminOnly, articleHandler.Create)
	articles.Put("/:id", adminOnly, articleHandler.Update)
	articles.Delete("/:id", adminOnly, articleHandler.Delete)

	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Post("/", sales, clientHandler.Create)
	clients.Put("/:id", sales, clientHandler.Update)
	clients.Delete("/:id", adminOnly, clientHandler.Delete)

	productions := protected.Group("/productions")
	productionHandler := NewProductionHandler(deps.ProductionUC)
	productions.Get("/", productionHandler.List)
	productions.Get("/:id", productionHandler.GetByID)
	productions.Post("/", warehouse, productionHandler.Create)
	productions.Put("/:id", warehouse, productionHandler.Update)
	productions.Delete("/:id", warehouse, productionHandler.Delete)

	commandes := protected.Group("/commandes")
	commandeHandler := NewCommandeHandler(deps.CommandeUC)
	commandes.Get("/", commandeHandler.List)
	commandes.Get("/summary", commandeHandler.Summary)
	commandes.Get("/:id", commandeHandler.GetByID)
	commandes.Post("/", sales, commandeHandler.Create)
	commandes.Put("/:id", sales, commandeHandler.Update)
	commandes.Delete("/:id", sales, commandeHandler.Delete)

	livraisons := protected.Group("/livraisons")
	livraisonHandler := NewLivraisonHandler(deps.LivraisonUC, deps.LivraisonPDF)
	livraisons.Get("/", livraisonHandler.List)
	livraisons.Get("/:id", livraisonHandler.GetByID)
	livraisons.Get("/:id/pdf", livraisonHandler.DownloadPDF)
	livraisons.Post("/", warehouse, livraisonHandler.Create)
	livraisons.Put("/:id", warehouse, livraisonHandler.Update)
	livraisons.Delete("/:id", warehouse, livraisonHandler.Delete)
}

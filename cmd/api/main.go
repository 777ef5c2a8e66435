package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jhoicas/Stock-api/docs"
	"github.com/jhoicas/Stock-api/internal/application/auth"
	"github.com/jhoicas/Stock-api/internal/application/commande"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/application/livraison"
	"github.com/jhoicas/Stock-api/internal/application/ports"
	"github.com/jhoicas/Stock-api/internal/application/production"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/internal/infrastructure/events"
	"github.com/jhoicas/Stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/Stock-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Stock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Stock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Stock-api/internal/interfaces/http"
	"github.com/jhoicas/Stock-api/pkg/config"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// storage repositorios de lectura más el runner transaccional del driver elegido.
type storage struct {
	txRunner    inventory.TxRunner
	articles    repository.ArticleRepository
	clients     repository.ClientRepository
	commandes   repository.CommandeRepository
	productions repository.ProductionRepository
	livraisons  repository.LivraisonRepository
	users       repository.UserRepository
	close       func()
}

// @title          Stock API
// @version        1.0
// @description    Ledger de stock y cumplimiento de commandes: producciones, commandes, livraisons y bons de livraison.
// @BasePath       /
// @securityDefinitions.apikey Bearer
// @in             header
// @name           Authorization
// @description    Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	promMetrics, err := metrics.NewPrometheus(prometheus.DefaultRegisterer, cfg.Metrics.Namespace)
	if err != nil {
		log.Fatal().Err(err).Msg("registrar métricas")
	}

	var publisher ports.DeliveryEventPublisher = ports.NopPublisher()
	if cfg.Kafka.Enabled() {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar publicador kafka")
			}
		}()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("eventos de livraison hacia kafka")
	}

	ledger := inventory.NewStockLedger(promMetrics, log)
	obs := inventory.NewObserver(promMetrics, log)

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}
	userUC := usecase.NewUserUseCase(st.users, log)

	articleUC := usecase.NewArticleUseCase(st.articles, log)
	clientUC := usecase.NewClientUseCase(st.clients, log)
	productionUC := production.NewUseCase(st.txRunner, ledger, st.productions, obs, log)
	commandeUC := commande.NewUseCase(st.txRunner, st.commandes, st.livraisons, obs, log)
	livraisonUC := livraison.NewUseCase(st.txRunner, ledger, commandeUC, st.livraisons, publisher, obs, log)

	// PDF: bon de livraison
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	livraisonPDFUC := livraison.NewPDFUseCase(st.livraisons, st.articles, st.clients, st.commandes, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db_driver": cfg.DB.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       userUC,
		ArticleUC:    articleUC,
		ClientUC:     clientUC,
		ProductionUC: productionUC,
		CommandeUC:   commandeUC,
		LivraisonUC:  livraisonUC,
		LivraisonPDF: livraisonPDFUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando migraciones si DB_MIGRATE) o el almacenamiento en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			txRunner:    store,
			articles:    memory.NewArticleRepository(store),
			clients:     memory.NewClientRepository(store),
			commandes:   memory.NewCommandeRepository(store),
			productions: memory.NewProductionRepository(store),
			livraisons:  memory.NewLivraisonRepository(store),
			users:       memory.NewUserRepository(store),
			close:       func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &storage{
		txRunner:    postgres.NewTxRunner(pool),
		articles:    postgres.NewArticleRepository(pool),
		clients:     postgres.NewClientRepository(pool),
		commandes:   postgres.NewCommandeRepository(pool),
		productions: postgres.NewProductionRepository(pool),
		livraisons:  postgres.NewLivraisonRepository(pool),
		users:       postgres.NewUserRepository(pool),
		close:       pool.Close,
	}, nil
}

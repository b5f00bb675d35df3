package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/almacen-ledger/internal/application/auth"
	"github.com/jhoicas/almacen-ledger/internal/application/catalog"
	appledger "github.com/jhoicas/almacen-ledger/internal/application/ledger"
	"github.com/jhoicas/almacen-ledger/internal/application/procurement"
	infrapdf "github.com/jhoicas/almacen-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-ledger/internal/infrastructure/rediscache"
	httpRouter "github.com/jhoicas/almacen-ledger/internal/interfaces/http"
	"github.com/jhoicas/almacen-ledger/pkg/config"
	"github.com/jhoicas/almacen-ledger/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	purchaseRepo := postgres.NewPurchaseRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de proyecciones: Redis si hay REDIS_ADDR, no-op si no.
	var cache appledger.ProjectionCache = rediscache.NopCache{}
	if cfg.Redis.Addr != "" {
		redisCache, err := rediscache.New(ctx, cfg.Redis, cfg.Ledger.StockCacheTTL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		cache = redisCache
	}

	transferUC := appledger.NewTransferUseCase(txRunner, productRepo, categoryRepo, cache, log)
	adjustmentUC := appledger.NewAdjustmentUseCase(txRunner, productRepo, categoryRepo, cache, log)
	reconciliationUC := appledger.NewReconciliationUseCase(txRunner, categoryRepo, cache, log, cfg.Ledger.DamagedCategory)
	projectionUC := appledger.NewProjectionUseCase(recordRepo, ledgerRepo, productRepo, categoryRepo, cache, log)

	kardexGenerator := infrapdf.NewMarotoKardexGenerator()
	kardexUC := appledger.NewKardexUseCase(ledgerRepo, productRepo, kardexGenerator, log)

	procurementUC := procurement.NewUseCase(purchaseRepo, productRepo, log)

	productUC := catalog.NewProductUseCase(productRepo)
	categoryUC := catalog.NewCategoryUseCase(categoryRepo)
	companyUC := catalog.NewCompanyUseCase(companyRepo)
	authUC := auth.NewUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		CompanyUC:        companyUC,
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		TransferUC:       transferUC,
		AdjustmentUC:     adjustmentUC,
		ProjectionUC:     projectionUC,
		KardexUC:         kardexUC,
		ReconciliationUC: reconciliationUC,
		ProcurementUC:    procurementUC,
		JWTSecret:        cfg.JWT.Secret,
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

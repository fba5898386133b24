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

	"github.com/jhoicas/puntoventa-api/internal/application/audit"
	appsales "github.com/jhoicas/puntoventa-api/internal/application/sales"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/puntoventa-api/internal/infrastructure/pdf"
	"github.com/jhoicas/puntoventa-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/puntoventa-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/puntoventa-api/internal/interfaces/http"
	"github.com/jhoicas/puntoventa-api/pkg/config"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones de base de datos")
	}

	itemRepo := postgres.NewItemRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditRecorder := audit.NewRecorder(auditRepo, log)
	saleEngine := appsales.NewEngine(txRunner, itemRepo, saleRepo, auditRecorder)

	// Caché de reportes: opcional. Sin REDIS_ADDR los reportes van siempre a la DB.
	var reportCache usecase.ReportCache
	if cfg.Redis.Addr != "" {
		cache, err := infraredis.NewCache(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer cache.Close()
		reportCache = cache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de reportes habilitada")
	}

	itemUC := usecase.NewItemUseCase(itemRepo, auditRecorder)
	customerUC := usecase.NewCustomerUseCase(customerRepo, auditRecorder)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, auditRecorder)
	purchaseUC := usecase.NewPurchaseUseCase(txRunner, poRepo, itemRepo, supplierRepo, auditRecorder)
	reportUC := usecase.NewReportUseCase(
		reportRepo, reportCache,
		time.Duration(cfg.Redis.TTLSeconds)*time.Second, log,
	)
	userUC := usecase.NewUserUseCase(userRepo, cfg.JWT)
	auditUC := audit.NewListUseCase(auditRepo)

	receiptGenerator := infrapdf.NewReceiptGenerator(cfg.App.Name)
	receiptUC := appsales.NewReceiptUseCase(saleRepo, itemRepo, customerRepo, receiptGenerator)

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
		Title:    "PuntoVenta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaleEngine: saleEngine,
		ReceiptUC:  receiptUC,
		ItemUC:     itemUC,
		CustomerUC: customerUC,
		SupplierUC: supplierUC,
		PurchaseUC: purchaseUC,
		ReportUC:   reportUC,
		UserUC:     userUC,
		AuditUC:    auditUC,
		JWTSecret:  cfg.JWT.Secret,
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

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

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/stockops"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"github.com/jhoicas/almacen-api/pkg/metrics"
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

	// Repositorios fuera de transacción (lecturas sobre el pool). Las
	// transiciones del motor usan los repos atados a tx que arma el TxRunner.
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	operationRepo := postgres.NewOperationRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	snapshotRepo := postgres.NewSnapshotRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	notifier := notify.NewMailNotifier(cfg.SMTP, log)
	defer notifier.Close()

	createUC := stockops.NewCreateUseCase(txRunner)
	lifecycleUC := stockops.NewLifecycleUseCase(txRunner, notifier)
	queryUC := stockops.NewQueryUseCase(operationRepo, snapshotRepo, movementRepo, itemRepo)
	adjustUC := stockops.NewAdjustmentUseCase(txRunner)
	slipUC := stockops.NewSlipUseCase(operationRepo, warehouseRepo, productRepo, infrapdf.NewMarotoSlipRenderer())

	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, locationRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
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
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		CreateUC:    createUC,
		LifecycleUC: lifecycleUC,
		QueryUC:     queryUC,
		AdjustUC:    adjustUC,
		SlipUC:      slipUC,
		JWTSecret:   cfg.JWT.Secret,
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

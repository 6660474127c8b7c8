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
	"github.com/netxel/inventario-api/internal/application/auth"
	"github.com/netxel/inventario-api/internal/application/inventory"
	"github.com/netxel/inventario-api/internal/application/product"
	appstore "github.com/netxel/inventario-api/internal/application/store"
	infracache "github.com/netxel/inventario-api/internal/infrastructure/cache"
	infrapdf "github.com/netxel/inventario-api/internal/infrastructure/pdf"
	"github.com/netxel/inventario-api/internal/infrastructure/postgres"
	httpRouter "github.com/netxel/inventario-api/internal/interfaces/http"
	"github.com/netxel/inventario-api/pkg/config"
	"github.com/netxel/inventario-api/pkg/logger"
	"github.com/netxel/inventario-api/pkg/retry"
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

	redisClient, err := infracache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer func() { _ = redisClient.Close() }()

	userRepo := postgres.NewUserRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	carrierRepo := postgres.NewCarrierRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	retryPolicy := retry.DefaultPolicy()
	storeCache := infracache.NewRedisStoreCache(redisClient, time.Duration(cfg.Redis.CacheTTLMin)*time.Minute)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	storeUC := appstore.NewUseCase(storeRepo, storeCache, retryPolicy)
	productUC := product.NewUseCase(productRepo, storeRepo, retryPolicy)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, storeRepo, movementRepo)
	movementQueryUC := inventory.NewMovementQueryUseCase(movementRepo, storeRepo, carrierRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

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
		Title:    "Netxel Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		StoreUC:          storeUC,
		ProductUC:        productUC,
		RegisterMovement: registerMovementUC,
		MovementQuery:    movementQueryUC,
		PDFGen:           pdfGenerator,
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

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}

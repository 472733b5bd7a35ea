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
	appinventory "github.com/hidrosur/comercial-api/internal/application/inventory"
	"github.com/hidrosur/comercial-api/internal/application/kit"
	"github.com/hidrosur/comercial-api/internal/application/sales"
	"github.com/hidrosur/comercial-api/internal/application/services"
	"github.com/hidrosur/comercial-api/internal/infrastructure/postgres"
	"github.com/hidrosur/comercial-api/internal/infrastructure/rediscache"
	httpRouter "github.com/hidrosur/comercial-api/internal/interfaces/http"
	"github.com/hidrosur/comercial-api/pkg/config"
	"github.com/hidrosur/comercial-api/pkg/logger"
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

	movementRepo := postgres.NewMovementRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	kitRepo := postgres.NewKitRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	contractRepo := postgres.NewServiceContractRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de saldos: opcional. Sin REDIS_URL el motor calcula siempre
	// contra el libro.
	var balanceCache appinventory.BalanceCache
	if cfg.Redis.URL != "" {
		redisClient, err := rediscache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		balanceCache = rediscache.NewBalanceCache(redisClient, log.Zerolog())
		log.Info().Msg("caché de saldos habilitado")
	}

	inventoryUC := appinventory.NewUseCase(movementRepo, productRepo, balanceCache)
	kitResolver := kit.NewResolverUseCase(productRepo, kitRepo)
	salesUC := sales.NewUseCase(saleRepo, movementRepo, productRepo, clientRepo, contractRepo, balanceCache, log.Zerolog())
	servicesUC := services.NewUseCase(contractRepo, clientRepo, productRepo, txRunner, log.Zerolog())

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
		Title:    "Comercial API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InventoryUC: inventoryUC,
		KitResolver: kitResolver,
		SalesUC:     salesUC,
		ServicesUC:  servicesUC,
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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/nexus-ledger/internal/application/finance"
	"github.com/jhoicas/nexus-ledger/internal/application/inventory"
	"github.com/jhoicas/nexus-ledger/internal/application/usecase"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
	"github.com/jhoicas/nexus-ledger/internal/infrastructure/kvstore"
	infrapdf "github.com/jhoicas/nexus-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/nexus-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/nexus-ledger/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/nexus-ledger/internal/interfaces/http"
	"github.com/jhoicas/nexus-ledger/pkg/config"
	"github.com/jhoicas/nexus-ledger/pkg/keylock"
	"github.com/jhoicas/nexus-ledger/pkg/logger"
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()
	persist, closePersist, err := openPersistence(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("conexión al almacenamiento")
	}
	defer closePersist()

	store, err := kvstore.Open(ctx, persist, log)
	if err != nil {
		log.Fatal().Err(err).Msg("carga de colecciones")
	}

	locks := keylock.New()
	tracker := finance.NewBalanceTracker(store, locks, log)
	analyzer := finance.NewAgingAnalyzer(store)
	partnerUC := finance.NewPartnerUseCase(store, locks)
	registerMovementUC := inventory.NewRegisterMovementUseCase(store, locks, tracker, log)
	stockQueryUC := inventory.NewStockQueryUseCase(store)
	replenishmentUC := inventory.NewReplenishmentUseCase(store, cfg.Ledger.DefaultReorderLevel)
	productUC := usecase.NewProductUseCase(store)
	warehouseUC := usecase.NewWarehouseUseCase(store)
	departmentUC := usecase.NewDepartmentUseCase(store)

	// PDF: estado de cuenta de proveedores y clientes
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		WarehouseUC:      warehouseUC,
		DepartmentUC:     departmentUC,
		RegisterMovement: registerMovementUC,
		StockQuery:       stockQueryUC,
		Replenishment:    replenishmentUC,
		PartnerUC:        partnerUC,
		Tracker:          tracker,
		Analyzer:         analyzer,
		StatementPDF:     pdfGenerator,
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
	store.Flush(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}

// openPersistence construye el colaborador de persistencia según STORE_DRIVER.
// La función devuelta libera la conexión.
func openPersistence(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.CollectionStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		cs := postgres.NewCollectionStore(pool)
		if err := cs.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return cs, pool.Close, nil
	case config.StoreDriverRedis:
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		cs := infraredis.NewCollectionStore(client, cfg.Redis.KeyPrefix)
		return cs, func() {
			if err := cs.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar cliente Redis")
			}
		}, nil
	default:
		log.Warn().Msg("STORE_DRIVER=memory: el estado se pierde al reiniciar")
		return kvstore.NewMemoryCollectionStore(), func() {}, nil
	}
}

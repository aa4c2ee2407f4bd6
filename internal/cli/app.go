package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/config"
	"github.com/caffeinecoffee/storefront/internal/logger"
	"github.com/caffeinecoffee/storefront/internal/orders"
	"github.com/caffeinecoffee/storefront/internal/repository"
	"github.com/caffeinecoffee/storefront/internal/repository/catalog"
	"github.com/caffeinecoffee/storefront/internal/repository/memory"
	"github.com/caffeinecoffee/storefront/internal/repository/postgres"
	redisrepo "github.com/caffeinecoffee/storefront/internal/repository/redis"
	"github.com/caffeinecoffee/storefront/internal/repository/sqlite"
	"github.com/caffeinecoffee/storefront/internal/service"
)

// app holds everything a command needs
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	repos    *repository.Repositories
	sessions *service.SessionManager
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	client := orders.NewClient(cfg.Orders, log)
	sessions := service.NewSessionManager(repos, client, cfg.Cart.StorageKey, cfg.Cart.ReceiptTTL, log)

	return &app{
		cfg:      cfg,
		logger:   log,
		repos:    repos,
		sessions: sessions,
	}, nil
}

func (a *app) Close() {
	if err := a.repos.Close(); err != nil {
		a.logger.Warn("Failed to close storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// openRepositories connects the configured slot store and loads the catalog.
// Carts and receipts share one store.
func openRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Repositories, error) {
	menu, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	var slots repository.SlotStore
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		slots = memory.NewSlotStore()
	case config.StorageSQLite:
		db, err := sqlite.NewConnection(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		slots = sqlite.NewSlotStore(db, logger)
	case config.StorageRedis:
		client, err := redisrepo.NewConnection(ctx, cfg.Storage.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		slots = redisrepo.NewSlotStore(client, logger)
	case config.StoragePostgres:
		db, err := postgres.NewConnection(cfg.Storage.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		slots = postgres.NewSlotStore(db, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	logger.Debug("Storage ready", zap.String("driver", cfg.Storage.Driver))

	return &repository.Repositories{
		Carts:    slots,
		Sessions: slots,
		Catalog:  menu,
	}, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/adapters/kvstore"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/adapters/provider"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/config"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/services"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/workers"
)

// App holds every long-lived component. Start must be called before the
// tracker or the prefetch worker are used.
type App struct {
	Config    *config.Config
	Store     domain.KeyValueStore
	Redis     *redis.Client
	Catalog   *services.PlanCatalog
	Sync      *services.PersistenceSync
	Tracker   *services.ProgressTracker
	Cache     *services.ContentCache
	Content   *services.ContentService
	Bible     *services.BibleService
	Prefetch  *workers.PrefetchWorker
	Generator domain.ContentGenerator

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	defs, err := config.LoadPlanDefinitions(cfg.PlansFile)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Catalog = services.NewPlanCatalog(defs)
	a.Sync = services.NewPersistenceSync(a.Store, a.Catalog)

	initial, err := a.Sync.Load(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	a.Tracker = services.NewProgressTracker(initial, services.WithObserver(a.Sync))

	if err := a.openGenerator(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Content = services.NewContentService(a.Generator)
	a.Cache = services.NewContentCache(a.Store)
	a.Prefetch = workers.NewPrefetchWorker(a.Cache, a.Content.ChapterText, cfg.PrefetchDelay)
	a.Bible = services.NewBibleService(a.Cache, a.Content.ChapterText, a.Tracker, a.Prefetch)

	return a, nil
}

func (a *App) Start(ctx context.Context) {
	a.Tracker.Start(ctx)
	a.Prefetch.Start(ctx)
}

// Close releases connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config

	if cfg.RedisConfigured() {
		rdb, err := cache.NewRedisClient(cache.RedisOptions{
			URL:      cfg.RedisURL,
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			if cfg.StoreBackend == config.BackendRedis {
				return err
			}
			log.Printf("Warning: Redis unavailable, rate limiting disabled: %v", err)
		} else {
			a.Redis = rdb
			a.closers = append(a.closers, rdb.Close)
		}
	}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		a.Store = kvstore.NewMemoryStore(cfg.MemoryStoreQuota)

	case config.BackendRedis:
		if a.Redis == nil {
			return errors.New("redis store selected but no redis address configured")
		}
		a.Store = kvstore.NewRedisStore(a.Redis)

	case config.BackendSQLite:
		db, err := kvstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		store, err := kvstore.NewSQLStore(ctx, db)
		if err != nil {
			return err
		}
		a.Store = store

	case config.BackendPostgres:
		log.Println("Connecting to database...")
		db, err := sqlx.Connect(cfg.DBDriver, cfg.PostgresDSN())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		a.closers = append(a.closers, db.Close)

		store, err := kvstore.NewSQLStore(ctx, db)
		if err != nil {
			return err
		}
		a.Store = store
		log.Println("Database connected successfully.")

	default:
		return fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return nil
}

func (a *App) openGenerator(ctx context.Context) error {
	if a.Config.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set, content generation disabled")
		a.Generator = provider.Unconfigured{}
		return nil
	}

	gen, err := provider.NewGeminiGenerator(ctx, provider.GeminiConfig{
		APIKey:          a.Config.GeminiAPIKey,
		TextModel:       a.Config.GeminiTextModel,
		DevotionalModel: a.Config.GeminiDevotionalModel,
	})
	if err != nil {
		return err
	}
	a.Generator = gen
	a.closers = append(a.closers, gen.Close)
	return nil
}

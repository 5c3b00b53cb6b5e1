package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GitSubham-00/shopgenius-ai-backend/cmd/shopgenius-api/handlers"
	"github.com/GitSubham-00/shopgenius-ai-backend/cmd/shopgenius-api/middleware"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/cache"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/catalog"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/config"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/observability"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/provider"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/storage"
)

// application bundles the long-lived dependencies behind the HTTP surface.
type application struct {
	cfg    *config.Config
	logger *observability.Logger
	store  *storage.Store
	cache  cache.Client

	search  *handlers.SearchHandler
	history *handlers.HistoryHandler
	users   *handlers.UserHandler
}

// newApplication builds every dependency from configuration. Store and cache
// failures degrade the service rather than abort startup: the store falls back
// to disabled, redis falls back to the in-process cache.
func newApplication(cfg *config.Config, logger *observability.Logger) *application {
	store, err := storage.Open(storage.Config{
		Driver:          cfg.Store.Driver,
		SQLitePath:      cfg.Store.SQLite.Path,
		PostgresDSN:     cfg.Store.Postgres.DSN,
		MaxOpenConns:    cfg.Store.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Store.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Store.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("Store unavailable, history and accounts disabled")
		store = &storage.Store{}
	}

	var cacheClient cache.Client
	switch cfg.Cache.Driver {
	case "redis":
		rc, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, falling back to in-process cache")
			cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
		} else {
			cacheClient = rc
		}
	default:
		cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}

	historyRepo := storage.NewHistoryRepository(store)
	userRepo := storage.NewUserRepository(store)

	seedAdmin(logger, userRepo, cfg.Bootstrap)

	searchClient := provider.NewSearchClient(provider.SearchConfig{
		APIKey:  cfg.Search.APIKey,
		APIHost: cfg.Search.APIHost,
		Timeout: cfg.Search.Timeout,
	})
	translator := provider.NewTranslator(provider.TranslatorConfig{
		Endpoint: cfg.Translator.Endpoint,
		Target:   cfg.Translator.Target,
		Timeout:  cfg.Translator.Timeout,
	})
	converter := catalog.NewConverter(cfg.Currency.Rate, cfg.Currency.Symbol)

	return &application{
		cfg:    cfg,
		logger: logger,
		store:  store,
		cache:  cacheClient,
		search: handlers.NewSearchHandler(logger, handlers.SearchHandlerConfig{
			Translator: translator,
			Searcher:   searchClient,
			Cache:      cacheClient,
			CacheTTL:   cfg.Cache.TTL,
			Converter:  converter,
			History:    historyRepo,
			MaxResults: cfg.Search.MaxResults,
		}),
		history: handlers.NewHistoryHandler(logger, historyRepo),
		users:   handlers.NewUserHandler(logger, userRepo),
	}
}

// seedAdmin ensures a default admin account exists when one is configured.
func seedAdmin(logger *observability.Logger, users *storage.UserRepository, b config.BootstrapConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := users.EnsureAdmin(ctx, b.AdminName, b.AdminEmail, b.AdminPassword)
	if err != nil {
		logger.Warn().Err(err).Msg("Admin bootstrap failed")
		return
	}
	if created {
		logger.Info().Str("email", b.AdminEmail).Msg("Default admin account created")
	}
}

// routes assembles the HTTP router.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","message":"API Running"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Get("/search", app.search.Search)
	r.Get("/price-history", app.history.PriceHistory)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", app.users.Signup)
		r.Get("/users", app.users.List)
		r.Delete("/users/{email}", app.users.Delete)
		r.Put("/users/{email}/role", app.users.UpdateRole)
		r.Post("/auth/login", app.users.Login)
	})

	return r
}

// close releases the application's external resources.
func (app *application) close() {
	if err := app.cache.Close(); err != nil {
		app.logger.Warn().Err(err).Msg("Cache close failed")
	}
	if err := app.store.Close(); err != nil {
		app.logger.Warn().Err(err).Msg("Store close failed")
	}
}

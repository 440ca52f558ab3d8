// Package daemon assembles the service from its configuration.
package daemon

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/cache"
	"github.com/marketlink/marketlink/internal/config"
	"github.com/marketlink/marketlink/internal/db"
	"github.com/marketlink/marketlink/internal/db/controller/user"
	"github.com/marketlink/marketlink/internal/db/dsn"
	"github.com/marketlink/marketlink/internal/db/pool"
	"github.com/marketlink/marketlink/internal/onboarding"
	"github.com/marketlink/marketlink/internal/web"
	"github.com/marketlink/marketlink/internal/web/handler"
	authmiddleware "github.com/marketlink/marketlink/internal/web/middleware/auth"
	"github.com/marketlink/marketlink/internal/web/session"
)

const sessionTable = "sessions"

//nolint:gochecknoglobals
var (
	newCache      = cache.New
	newWebService = web.New
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg            *config.Config
	webService     *web.Service
	pool           *pool.Pool
	cache          cache.Client
	sessionStorage fiber.Storage
}

// Start serves until SIGINT or SIGTERM, then shuts down and releases all connections.
func (d *Daemon) Start() error {
	errc := make(chan error, 1)

	go func() {
		errc <- d.webService.Start(d.webService.Addr())
	}()

	log.Info().Str("addr", d.webService.Addr()).Str("url", d.cfg.Webserver.URL).Msg("web service started")

	go d.webService.WaitShutdown()

	err := <-errc

	return errors.Join(err, d.Close())
}

// Close releases the storage and database connections.
func (d *Daemon) Close() error {
	var errs []error

	if err := d.sessionStorage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close session storage: %w", err))
	}

	if err := d.cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close cache: %w", err))
	}

	if err := d.pool.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}

	return errors.Join(errs...)
}

// New creates a new Daemon instance with the provided configuration.
// The database is connected on first use.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	dbPool := pool.New(db.Opener(cfg.DB))
	store := user.New(dbPool)

	registry, err := newRegistry(cfg.Auth)
	if err != nil {
		return nil, err
	}

	cacheClient, err := newCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	sessionStorage := newSessionStorage(cfg, cacheClient)
	sessions := session.New(cfg, sessionStorage)
	claims := auth.NewClaimsBuilder(store)

	webService, err := newWebService(&handler.Deps{
		Config: cfg,
		Auth: auth.NewAuthenticator(
			auth.NewCredentialVerifier(store, auth.NewPasswordHasher()),
			auth.NewFederatedResolver(registry),
			auth.NewReconciler(store),
			claims,
		),
		Onboarding: onboarding.New(store),
		Sessions:   sessions,
		Middleware: authmiddleware.New(sessions, claims),
		Cache:      cacheClient,
	})
	if err != nil {
		return nil, errors.Join(err, sessionStorage.Close(), cacheClient.Close(), dbPool.Close())
	}

	return &Daemon{
		cfg:            cfg,
		webService:     webService,
		pool:           dbPool,
		cache:          cacheClient,
		sessionStorage: sessionStorage,
	}, nil
}

// newRegistry creates an OIDC provider for every enabled provider config.
func newRegistry(cfg config.Auth) (*auth.Registry, error) {
	names := cfg.EnabledProviders()
	slices.Sort(names)

	providers := make([]auth.Provider, 0, len(names))

	for _, name := range names {
		p, err := auth.NewOIDCProvider(name, cfg.Providers[name])
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}

		providers = append(providers, p)
		log.Info().Str("provider", name).Msg("identity provider configured")
	}

	return auth.NewRegistry(providers...), nil
}

// newSessionStorage keeps the server side session entries next to the users
// for mysql and postgres. sqlite deployments use the cache.
func newSessionStorage(cfg *config.Config, c cache.Client) fiber.Storage {
	switch cfg.DB.GormEngine {
	case "mysql":
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(&cfg.DB),
			Table:         sessionTable,
		})
	case "postgres":
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(&cfg.DB),
			Table:         sessionTable,
		})
	default:
		return cache.NewStorage(c, "session:")
	}
}

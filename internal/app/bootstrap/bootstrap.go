package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	authorization "phonedeck/contexts/identity-access/authorization-service"
	authzmemory "phonedeck/contexts/identity-access/authorization-service/adapters/memory"
	authzredis "phonedeck/contexts/identity-access/authorization-service/adapters/redis"
	authzports "phonedeck/contexts/identity-access/authorization-service/ports"
	identity "phonedeck/contexts/identity-access/identity-service"
	identitypostgres "phonedeck/contexts/identity-access/identity-service/adapters/postgres"
	token "phonedeck/contexts/identity-access/token-service"
	booking "phonedeck/contexts/marketplace/booking-service"
	"phonedeck/contexts/marketplace/booking-service/adapters/paymentprovider"
	bookingpostgres "phonedeck/contexts/marketplace/booking-service/adapters/postgres"
	catalog "phonedeck/contexts/marketplace/catalog-service"
	catalogpostgres "phonedeck/contexts/marketplace/catalog-service/adapters/postgres"
	"phonedeck/internal/platform/cache"
	"phonedeck/internal/platform/config"
	"phonedeck/internal/platform/db"
	"phonedeck/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	redis    *cache.Redis
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	var redisConn *cache.Redis
	var roleCache authzports.RoleCache
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		redisConn, err = cache.Connect(cfg.RedisAddr)
		if err != nil {
			_ = pg.Close()
			return nil, err
		}
		roleCache = authzredis.NewCache(redisConn.Client)
	} else {
		roleCache = authzmemory.NewStore()
	}

	identityRepo := identitypostgres.NewRepository(pg.DB, logger)
	identityModule := identity.NewModule(identity.Dependencies{
		Repository: identityRepo,
		RoleCache:  roleCacheInvalidator{cache: roleCache},
		Clock:      systemClock{},
		Logger:     logger,
	})

	tokenModule := token.NewModule(token.Dependencies{
		Users:  identityUserRegistry{repo: identityRepo},
		Clock:  systemClock{},
		Secret: cfg.JWTSecret,
		TTL:    cfg.TokenTTL,
		Logger: logger,
	})

	authorizationModule := authorization.NewModule(authorization.Dependencies{
		Roles:        identityRoleReader{repo: identityRepo},
		RoleCache:    roleCache,
		Clock:        systemClock{},
		RoleCacheTTL: 5 * time.Minute,
		Logger:       logger,
	})

	catalogRepo := catalogpostgres.NewRepository(pg.DB, logger)
	catalogModule := catalog.NewModule(catalog.Dependencies{
		Repository: catalogRepo,
		Sellers:    identitySellerDirectory{repo: identityRepo},
		Clock:      systemClock{},
		IDGen:      uuidGenerator{},
		Logger:     logger,
	})

	bookingRepo := bookingpostgres.NewRepository(pg.DB, logger)
	bookingModule := booking.NewModule(booking.Dependencies{
		Repository:     bookingRepo,
		Idempotency:    bookingRepo,
		Catalog:        catalogListingBridge{service: catalogModule.Service},
		Payments:       paymentprovider.NewClient(cfg.PaymentProviderURL, cfg.PaymentProviderSecretKey, logger),
		Clock:          systemClock{},
		IDGen:          uuidGenerator{},
		Logger:         logger,
		IdempotencyTTL: 7 * 24 * time.Hour,
	})

	server := httpserver.New(
		identityModule,
		tokenModule,
		authorizationModule,
		catalogModule,
		bookingModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		redis:    redisConn,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	var firstErr error
	if a.redis != nil {
		firstErr = a.redis.Close()
	}
	if a.postgres != nil {
		if err := a.postgres.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

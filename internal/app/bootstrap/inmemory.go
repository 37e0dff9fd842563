package bootstrap

import (
	"log/slog"
	"time"

	authorization "phonedeck/contexts/identity-access/authorization-service"
	authzmemory "phonedeck/contexts/identity-access/authorization-service/adapters/memory"
	identity "phonedeck/contexts/identity-access/identity-service"
	identitymemory "phonedeck/contexts/identity-access/identity-service/adapters/memory"
	token "phonedeck/contexts/identity-access/token-service"
	booking "phonedeck/contexts/marketplace/booking-service"
	bookingmemory "phonedeck/contexts/marketplace/booking-service/adapters/memory"
	catalog "phonedeck/contexts/marketplace/catalog-service"
	catalogmemory "phonedeck/contexts/marketplace/catalog-service/adapters/memory"
	"phonedeck/internal/platform/httpserver"
)

// InMemoryApp wires every module over in-memory adapters with the same
// cross-context bridges the production build uses. Tests and local runs
// reach the stores directly for seeding.
type InMemoryApp struct {
	Identity      identity.Module
	Token         token.Module
	Authorization authorization.Module
	Catalog       catalog.Module
	Booking       booking.Module

	IdentityStore *identitymemory.Store
	AuthzStore    *authzmemory.Store
	CatalogStore  *catalogmemory.Store
	BookingStore  *bookingmemory.Store
}

func NewInMemory(jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) InMemoryApp {
	identityStore := identitymemory.NewStore()
	authzStore := authzmemory.NewStore()
	catalogStore := catalogmemory.NewStore()
	bookingStore := bookingmemory.NewStore()

	identityModule := identity.NewModule(identity.Dependencies{
		Repository: identityStore,
		RoleCache:  roleCacheInvalidator{cache: authzStore},
		Clock:      identityStore,
		Logger:     logger,
	})
	identityModule.Store = identityStore

	tokenModule := token.NewModule(token.Dependencies{
		Users:  identityUserRegistry{repo: identityStore},
		Secret: jwtSecret,
		TTL:    tokenTTL,
		Logger: logger,
	})

	authorizationModule := authorization.NewModule(authorization.Dependencies{
		Roles:        identityRoleReader{repo: identityStore},
		RoleCache:    authzStore,
		Clock:        authzStore,
		RoleCacheTTL: 5 * time.Minute,
		Logger:       logger,
	})
	authorizationModule.Store = authzStore

	catalogModule := catalog.NewModule(catalog.Dependencies{
		Repository: catalogStore,
		Sellers:    identitySellerDirectory{repo: identityStore},
		Clock:      catalogStore,
		IDGen:      catalogStore,
		Logger:     logger,
	})
	catalogModule.Store = catalogStore

	bookingModule := booking.NewModule(booking.Dependencies{
		Repository:  bookingStore,
		Idempotency: bookingStore,
		Catalog:     catalogListingBridge{service: catalogModule.Service},
		Payments:    bookingStore,
		Clock:       bookingStore,
		IDGen:       bookingStore,
		Logger:      logger,
	})
	bookingModule.Store = bookingStore

	return InMemoryApp{
		Identity:      identityModule,
		Token:         tokenModule,
		Authorization: authorizationModule,
		Catalog:       catalogModule,
		Booking:       bookingModule,

		IdentityStore: identityStore,
		AuthzStore:    authzStore,
		CatalogStore:  catalogStore,
		BookingStore:  bookingStore,
	}
}

// NewInMemoryServer is the test entrypoint for full-stack HTTP assertions.
func NewInMemoryServer(jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) (*httpserver.Server, InMemoryApp) {
	app := NewInMemory(jwtSecret, tokenTTL, logger)
	server := httpserver.New(
		app.Identity,
		app.Token,
		app.Authorization,
		app.Catalog,
		app.Booking,
		logger,
		":0",
	)
	return server, app
}

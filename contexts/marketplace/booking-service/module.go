package booking

import (
	"log/slog"
	"time"

	httpadapter "phonedeck/contexts/marketplace/booking-service/adapters/http"
	"phonedeck/contexts/marketplace/booking-service/adapters/memory"
	"phonedeck/contexts/marketplace/booking-service/application"
	"phonedeck/contexts/marketplace/booking-service/ports"
)

// Module is the booking-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Catalog        ports.ProductCatalog
	Payments       ports.PaymentIntentProvider
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
	IdempotencyTTL time.Duration
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Idempotency:    deps.Idempotency,
		Catalog:        deps.Catalog,
		Payments:       deps.Payments,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		Logger:         deps.Logger,
		IdempotencyTTL: deps.IdempotencyTTL,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters, including a faked catalog view and payment provider.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Idempotency: store,
		Catalog:     store,
		Payments:    store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}

package authorization

import (
	"log/slog"
	"time"

	"phonedeck/contexts/identity-access/authorization-service/adapters/memory"
	"phonedeck/contexts/identity-access/authorization-service/application/queries"
	"phonedeck/contexts/identity-access/authorization-service/ports"
)

// Module is the authorization-service composition root exposed to runtime wiring.
type Module struct {
	Engine queries.DecideUseCase
	Store  *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Roles        ports.RoleReader
	RoleCache    ports.RoleCache
	Clock        ports.Clock
	RoleCacheTTL time.Duration
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Engine: queries.DecideUseCase{
			Roles:        deps.Roles,
			RoleCache:    deps.RoleCache,
			Clock:        deps.Clock,
			RoleCacheTTL: deps.RoleCacheTTL,
			Logger:       deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Roles:        store,
		RoleCache:    store,
		Clock:        store,
		RoleCacheTTL: 5 * time.Minute,
		Logger:       logger,
	})
	module.Store = store
	return module
}

package token

import (
	"log/slog"
	"time"

	"phonedeck/contexts/identity-access/token-service/application"
	"phonedeck/contexts/identity-access/token-service/ports"
)

// Module is the token-service composition root exposed to runtime wiring.
type Module struct {
	Service application.Service
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Users  ports.UserRegistry
	Clock  ports.Clock
	Secret string
	TTL    time.Duration
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Users:  deps.Users,
			Clock:  deps.Clock,
			Secret: []byte(deps.Secret),
			TTL:    deps.TTL,
			Logger: deps.Logger,
		},
	}
}

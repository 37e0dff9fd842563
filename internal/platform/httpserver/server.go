package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	authorization "phonedeck/contexts/identity-access/authorization-service"
	identity "phonedeck/contexts/identity-access/identity-service"
	token "phonedeck/contexts/identity-access/token-service"
	booking "phonedeck/contexts/marketplace/booking-service"
	catalog "phonedeck/contexts/marketplace/catalog-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "phonedeck/internal/platform/httpserver/docs"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	identity      identity.Module
	token         token.Module
	authorization authorization.Module
	catalog       catalog.Module
	booking       booking.Module
}

func New(
	identityModule identity.Module,
	tokenModule token.Module,
	authorizationModule authorization.Module,
	catalogModule catalog.Module,
	bookingModule booking.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		identity:      identityModule,
		token:         tokenModule,
		authorization: authorizationModule,
		catalog:       catalogModule,
		booking:       bookingModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerIdentityRoutes()
	s.registerCatalogRoutes()
	s.registerBookingRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package httpserver

import (
	"net/http"
	"strings"

	authzports "phonedeck/contexts/identity-access/authorization-service/ports"
)

// legacyMessage is the error body shape the storefront clients already parse.
type legacyMessage struct {
	Message string `json:"message"`
}

// authenticate resolves the bearer credential into a caller. A missing
// header answers 401; a present but invalid or expired credential answers
// 403 with the body the clients expect.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (authzports.Caller, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		writeJSON(w, http.StatusUnauthorized, legacyMessage{Message: "unauthorized access"})
		return authzports.Caller{}, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		writeJSON(w, http.StatusForbidden, legacyMessage{Message: "Forbidden Access"})
		return authzports.Caller{}, false
	}

	email, err := s.token.Service.Verify(r.Context(), parts[1])
	if err != nil {
		writeJSON(w, http.StatusForbidden, legacyMessage{Message: "Forbidden Access"})
		return authzports.Caller{}, false
	}
	return authzports.Caller{Email: email, Authenticated: true}, true
}

// authorize runs one action through the decision engine and answers 403 on
// deny. Handlers never re-derive role checks locally.
func (s *Server) authorize(
	w http.ResponseWriter,
	r *http.Request,
	caller authzports.Caller,
	action authzports.Action,
	target authzports.Target,
) bool {
	decision, err := s.authorization.Engine.Execute(r.Context(), caller, action, target)
	if err != nil {
		writeJSON(w, http.StatusForbidden, legacyMessage{Message: "Forbidden Access"})
		return false
	}
	if !decision.Allowed {
		writeJSON(w, http.StatusForbidden, legacyMessage{Message: "Forbidden Access"})
		return false
	}
	return true
}

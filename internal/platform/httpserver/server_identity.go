package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	authzports "phonedeck/contexts/identity-access/authorization-service/ports"
	identityerrors "phonedeck/contexts/identity-access/identity-service/domain/errors"
	identityhttp "phonedeck/contexts/identity-access/identity-service/transport/http"
	tokenerrors "phonedeck/contexts/identity-access/token-service/domain/errors"
	tokenhttp "phonedeck/contexts/identity-access/token-service/transport/http"
)

func (s *Server) registerIdentityRoutes() {
	s.mux.HandleFunc("GET /jwt", s.handleIssueToken)
	s.mux.HandleFunc("POST /users", s.handleRegisterUser)
	s.mux.HandleFunc("GET /users/{email}", s.handleRoleFlags)
	s.mux.HandleFunc("GET /users/admin/{email}", s.handleAdminFlag)
	s.mux.HandleFunc("PUT /users/admin/{email}", s.handleGrantAdmin)
	s.mux.HandleFunc("PUT /users/buyer/{email}", s.handleCompleteBuyerSignup)
	s.mux.HandleFunc("GET /sellers", s.handleListSellers)
	s.mux.HandleFunc("PUT /sellers/verify/{email}", s.handleVerifySeller)
	s.mux.HandleFunc("DELETE /sellers/{email}", s.handleDeleteSeller)
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	credential, err := s.token.Service.Issue(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, tokenerrors.ErrNotRegistered):
			// Unregistered emails get an empty credential, not an error body.
			writeJSON(w, http.StatusForbidden, tokenhttp.IssueTokenResponse{AccessToken: ""})
		case errors.Is(err, tokenerrors.ErrInvalidRequest):
			writeIdentityError(w, http.StatusBadRequest, "invalid_request", "email query parameter is required")
		default:
			writeIdentityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}
	writeJSON(w, http.StatusOK, tokenhttp.IssueTokenResponse{AccessToken: credential.Token})
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.identity.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		if errors.Is(err, identityerrors.ErrEmailAlreadyRegistered) {
			// Legacy duplicate-register contract: acknowledged=false, not 409.
			writeJSON(w, http.StatusOK, identityhttp.RegisterUserResponse{
				Acknowledged: false,
				Message:      "user already exists",
			})
			return
		}
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoleFlags(w http.ResponseWriter, r *http.Request) {
	caller := authzports.Caller{}
	if !s.authorize(w, r, caller, authzports.ActionViewUserFlags, authzports.Target{}) {
		return
	}
	resp, err := s.identity.Handler.RoleFlagsHandler(r.Context(), r.PathValue("email"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminFlag(w http.ResponseWriter, r *http.Request) {
	caller := authzports.Caller{}
	if !s.authorize(w, r, caller, authzports.ActionViewUserFlags, authzports.Target{}) {
		return
	}
	resp, err := s.identity.Handler.AdminFlagHandler(r.Context(), r.PathValue("email"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrantAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionGrantAdmin, authzports.Target{}) {
		return
	}
	resp, err := s.identity.Handler.GrantAdminHandler(r.Context(), r.PathValue("email"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompleteBuyerSignup(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	email := r.PathValue("email")
	if !s.authorize(w, r, caller, authzports.ActionCompleteBuyerSignup, authzports.Target{OwnerEmail: email}) {
		return
	}
	resp, err := s.identity.Handler.CompleteBuyerSignupHandler(r.Context(), email)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSellers(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionListSellers, authzports.Target{}) {
		return
	}
	resp, err := s.identity.Handler.ListSellersHandler(r.Context())
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleVerifySeller flips the seller's verified flag and then refreshes the
// badge on their live listings. The listing refresh crosses stores, so a
// failure is logged rather than rolled back.
func (s *Server) handleVerifySeller(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionVerifySeller, authzports.Target{}) {
		return
	}

	email := r.PathValue("email")
	resp, err := s.identity.Handler.VerifySellerHandler(r.Context(), email)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}

	if _, err := s.catalog.Service.MarkSellerVerified(r.Context(), email); err != nil {
		s.logger.Warn("seller listing verification refresh failed",
			"event", "seller_listing_verification_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"email", email,
			"error", err.Error(),
		)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteSeller(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionDeleteSeller, authzports.Target{}) {
		return
	}

	email := r.PathValue("email")
	if err := s.identity.Handler.DeleteSellerHandler(r.Context(), email); err != nil {
		writeIdentityDomainError(w, err)
		return
	}

	if _, err := s.catalog.Service.DeleteProductsByOwner(r.Context(), email); err != nil {
		s.logger.Warn("seller listing cleanup failed",
			"event", "seller_listing_cleanup_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"email", email,
			"error", err.Error(),
		)
	}
	writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true, "email": email})
}

func writeIdentityDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identityerrors.ErrInvalidRequest),
		errors.Is(err, identityerrors.ErrInvalidRole):
		writeIdentityError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, identityerrors.ErrUserNotFound):
		writeIdentityError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, identityerrors.ErrEmailAlreadyRegistered):
		writeIdentityError(w, http.StatusConflict, "email_already_registered", err.Error())
	case errors.Is(err, identityerrors.ErrRoleAlreadyAssigned):
		writeIdentityError(w, http.StatusConflict, "role_already_assigned", err.Error())
	case errors.Is(err, identityerrors.ErrNotSeller),
		errors.Is(err, identityerrors.ErrSellerDeletionOnly):
		writeIdentityError(w, http.StatusConflict, "seller_state_conflict", err.Error())
	default:
		writeIdentityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeIdentityError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, identityhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authzports "phonedeck/contexts/identity-access/authorization-service/ports"
	catalogerrors "phonedeck/contexts/marketplace/catalog-service/domain/errors"
	"phonedeck/contexts/marketplace/catalog-service/ports"
	cataloghttp "phonedeck/contexts/marketplace/catalog-service/transport/http"
)

func (s *Server) registerCatalogRoutes() {
	s.mux.HandleFunc("GET /categories", s.handleListCategories)
	s.mux.HandleFunc("GET /categories/{categoryId}", s.handleListProductsByCategory)
	s.mux.HandleFunc("GET /products", s.handleListProducts)
	s.mux.HandleFunc("POST /products", s.handleCreateProduct)
	s.mux.HandleFunc("GET /products/{productId}", s.handleGetProduct)
	s.mux.HandleFunc("PUT /products/{productId}/advertise", s.handleAdvertiseProduct)
	s.mux.HandleFunc("PUT /products/{productId}/report", s.handleReportProduct)
	s.mux.HandleFunc("PUT /products/verify", s.handleVerifySellerListings)
	s.mux.HandleFunc("GET /myproducts", s.handleListMyProducts)
	s.mux.HandleFunc("DELETE /myproducts/{productId}", s.handleDeleteMyProduct)
	s.mux.HandleFunc("GET /reported", s.handleListReportedProducts)
	s.mux.HandleFunc("DELETE /reported/{productId}", s.handleDeleteReportedProduct)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListCategoriesHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListProductsByCategoryHandler(r.Context(), r.PathValue("categoryId"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := ports.ListFilter{
		CategoryID:     query.Get("categoryId"),
		AdvertisedOnly: strings.EqualFold(query.Get("advertised"), "true"),
	}
	resp, err := s.catalog.Handler.ListProductsHandler(r.Context(), filter)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionCreateProduct, authzports.Target{OwnerEmail: caller.Email}) {
		return
	}

	var req cataloghttp.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.CreateProductHandler(r.Context(), caller.Email, req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetProductHandler(r.Context(), r.PathValue("productId"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdvertiseProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	productID := r.PathValue("productId")
	product, err := s.catalog.Service.GetProduct(r.Context(), productID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionAdvertiseProduct, authzports.Target{OwnerEmail: product.OwnerEmail}) {
		return
	}

	resp, err := s.catalog.Handler.AdvertiseProductHandler(r.Context(), productID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReportProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	productID := r.PathValue("productId")
	product, err := s.catalog.Service.GetProduct(r.Context(), productID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionReportProduct, authzports.Target{OwnerEmail: product.OwnerEmail}) {
		return
	}

	resp, err := s.catalog.Handler.ReportProductHandler(r.Context(), productID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifySellerListings(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionVerifySeller, authzports.Target{}) {
		return
	}

	email := r.URL.Query().Get("email")
	resp, err := s.catalog.Handler.VerifySellerListingsHandler(r.Context(), email)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMyProducts(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	email := r.URL.Query().Get("email")
	if !s.authorize(w, r, caller, authzports.ActionListOwnProducts, authzports.Target{OwnerEmail: email}) {
		return
	}

	resp, err := s.catalog.Handler.ListMyProductsHandler(r.Context(), email)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteMyProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	productID := r.PathValue("productId")
	product, err := s.catalog.Service.GetProduct(r.Context(), productID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionDeleteOwnProduct, authzports.Target{OwnerEmail: product.OwnerEmail}) {
		return
	}

	resp, err := s.catalog.Handler.DeleteProductHandler(r.Context(), productID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListReportedProducts(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionListReportedProducts, authzports.Target{}) {
		return
	}

	resp, err := s.catalog.Handler.ListReportedProductsHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteReportedProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, caller, authzports.ActionDeleteReportedProduct, authzports.Target{}) {
		return
	}

	resp, err := s.catalog.Handler.DeleteReportedProductHandler(r.Context(), r.PathValue("productId"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrInvalidRequest):
		writeCatalogError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, catalogerrors.ErrProductNotFound):
		writeCatalogError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrCategoryNotFound):
		writeCatalogError(w, http.StatusNotFound, "category_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrSellerRoleRequired):
		writeCatalogError(w, http.StatusForbidden, "seller_role_required", err.Error())
	case errors.Is(err, catalogerrors.ErrProductNotReported):
		writeCatalogError(w, http.StatusConflict, "product_not_reported", err.Error())
	case errors.Is(err, catalogerrors.ErrProductCompleted):
		writeCatalogError(w, http.StatusConflict, "product_completed", err.Error())
	default:
		writeCatalogError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCatalogError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

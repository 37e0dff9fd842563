package httptransport

import "time"

type CreateProductRequest struct {
	Name        string `json:"name"`
	CategoryID  string `json:"categoryId,omitempty"`
	Condition   string `json:"condition,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

type ProductDTO struct {
	ProductID      string    `json:"productId"`
	OwnerEmail     string    `json:"ownerEmail"`
	Name           string    `json:"name"`
	CategoryID     string    `json:"categoryId,omitempty"`
	Condition      string    `json:"condition,omitempty"`
	PriceCents     int64     `json:"priceCents"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location,omitempty"`
	Advertised     bool      `json:"advertised"`
	Reported       bool      `json:"reported"`
	VerifiedSeller bool      `json:"verifiedSeller"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ListProductsResponse struct {
	Products []ProductDTO `json:"products"`
}

type CategoryDTO struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
}

type ListCategoriesResponse struct {
	Categories []CategoryDTO `json:"categories"`
}

type VerifySellerListingsResponse struct {
	OwnerEmail string `json:"ownerEmail"`
	Updated    int    `json:"updated"`
}

type DeleteProductResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	ProductID    string `json:"productId"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

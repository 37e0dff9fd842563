package ports

import (
	"context"
	"time"
)

const (
	ProductStatusAvailable = "available"
	ProductStatusCompleted = "completed"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// SellerRecord is the identity projection the catalog needs before accepting
// a listing.
type SellerRecord struct {
	Email    string
	IsSeller bool
	Verified bool
}

// SellerDirectory is implemented over the Identity Store.
type SellerDirectory interface {
	GetSeller(ctx context.Context, email string) (SellerRecord, bool, error)
}

type Category struct {
	CategoryID string
	Name       string
}

type Product struct {
	ProductID      string
	OwnerEmail     string
	Name           string
	CategoryID     string
	Condition      string
	PriceCents     int64
	Description    string
	Location       string
	Advertised     bool
	Reported       bool
	VerifiedSeller bool
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateProductInput struct {
	Name        string
	CategoryID  string
	Condition   string
	PriceCents  int64
	Description string
	Location    string
}

type ListFilter struct {
	CategoryID     string
	AdvertisedOnly bool
}

type Repository interface {
	CreateProduct(ctx context.Context, product Product) (Product, error)
	GetProduct(ctx context.Context, productID string) (Product, error)
	ListProducts(ctx context.Context, filter ListFilter) ([]Product, error)
	ListProductsByOwner(ctx context.Context, ownerEmail string) ([]Product, error)
	ListReportedProducts(ctx context.Context) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, categoryID string) (Category, bool, error)
	SetAdvertised(ctx context.Context, productID string, advertised bool, now time.Time) (Product, error)
	SetReported(ctx context.Context, productID string, now time.Time) (Product, error)
	MarkCompleted(ctx context.Context, productID string, now time.Time) (Product, error)
	MarkSellerVerified(ctx context.Context, ownerEmail string, now time.Time) (int, error)
	DeleteProduct(ctx context.Context, productID string) error
	DeleteProductsByOwner(ctx context.Context, ownerEmail string) (int, error)
}

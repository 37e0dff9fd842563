package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "phonedeck/contexts/marketplace/catalog-service/domain/errors"
	"phonedeck/contexts/marketplace/catalog-service/ports"
)

type Service struct {
	Repo    ports.Repository
	Sellers ports.SellerDirectory
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

// CreateProduct accepts a listing from a registered seller. verifiedSeller is
// snapshotted from the seller record at listing time; the admin verify flow
// refreshes it across existing listings.
func (s Service) CreateProduct(
	ctx context.Context,
	ownerEmail string,
	input ports.CreateProductInput,
) (ports.Product, error) {
	ownerEmail = strings.ToLower(strings.TrimSpace(ownerEmail))
	if ownerEmail == "" || strings.TrimSpace(input.Name) == "" || input.PriceCents <= 0 {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}

	seller, found, err := s.Sellers.GetSeller(ctx, ownerEmail)
	if err != nil {
		return ports.Product{}, err
	}
	if !found || !seller.IsSeller {
		return ports.Product{}, domainerrors.ErrSellerRoleRequired
	}

	categoryID := strings.TrimSpace(input.CategoryID)
	if categoryID != "" {
		_, found, err := s.Repo.GetCategory(ctx, categoryID)
		if err != nil {
			return ports.Product{}, err
		}
		if !found {
			return ports.Product{}, domainerrors.ErrCategoryNotFound
		}
	}

	productID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Product{}, err
	}

	now := s.now()
	product, err := s.Repo.CreateProduct(ctx, ports.Product{
		ProductID:      productID,
		OwnerEmail:     ownerEmail,
		Name:           strings.TrimSpace(input.Name),
		CategoryID:     categoryID,
		Condition:      strings.TrimSpace(input.Condition),
		PriceCents:     input.PriceCents,
		Description:    strings.TrimSpace(input.Description),
		Location:       strings.TrimSpace(input.Location),
		Advertised:     false,
		Reported:       false,
		VerifiedSeller: seller.Verified,
		Status:         ports.ProductStatusAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return ports.Product{}, err
	}

	resolveLogger(s.Logger).Info("product listed",
		"event", "catalog_product_listed",
		"module", "marketplace/catalog-service",
		"layer", "application",
		"product_id", product.ProductID,
		"owner", ownerEmail,
		"category_id", categoryID,
	)
	return product, nil
}

func (s Service) GetProduct(ctx context.Context, productID string) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetProduct(ctx, strings.TrimSpace(productID))
}

func (s Service) ListProducts(ctx context.Context, filter ports.ListFilter) ([]ports.Product, error) {
	return s.Repo.ListProducts(ctx, filter)
}

func (s Service) ListCategories(ctx context.Context) ([]ports.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s Service) ListProductsByCategory(ctx context.Context, categoryID string) ([]ports.Product, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	_, found, err := s.Repo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerrors.ErrCategoryNotFound
	}
	return s.Repo.ListProducts(ctx, ports.ListFilter{CategoryID: categoryID, AdvertisedOnly: true})
}

func (s Service) ListMyProducts(ctx context.Context, ownerEmail string) ([]ports.Product, error) {
	ownerEmail = strings.ToLower(strings.TrimSpace(ownerEmail))
	if ownerEmail == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListProductsByOwner(ctx, ownerEmail)
}

func (s Service) ListReportedProducts(ctx context.Context) ([]ports.Product, error) {
	return s.Repo.ListReportedProducts(ctx)
}

func (s Service) AdvertiseProduct(ctx context.Context, productID string) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	product, err := s.Repo.SetAdvertised(ctx, strings.TrimSpace(productID), true, s.now())
	if err != nil {
		return ports.Product{}, err
	}
	resolveLogger(s.Logger).Info("product advertised",
		"event", "catalog_product_advertised",
		"module", "marketplace/catalog-service",
		"layer", "application",
		"product_id", product.ProductID,
	)
	return product, nil
}

func (s Service) ReportProduct(ctx context.Context, productID string) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	product, err := s.Repo.SetReported(ctx, strings.TrimSpace(productID), s.now())
	if err != nil {
		return ports.Product{}, err
	}
	resolveLogger(s.Logger).Warn("product reported",
		"event", "catalog_product_reported",
		"module", "marketplace/catalog-service",
		"layer", "application",
		"product_id", product.ProductID,
	)
	return product, nil
}

// MarkProductCompleted is driven by booking resolution: the listing leaves
// the public catalog but the record survives for order history.
func (s Service) MarkProductCompleted(ctx context.Context, productID string) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.MarkCompleted(ctx, strings.TrimSpace(productID), s.now())
}

// MarkSellerVerified refreshes verifiedSeller across a seller's listings,
// paired with the identity-side verify transition.
func (s Service) MarkSellerVerified(ctx context.Context, ownerEmail string) (int, error) {
	ownerEmail = strings.ToLower(strings.TrimSpace(ownerEmail))
	if ownerEmail == "" {
		return 0, domainerrors.ErrInvalidRequest
	}
	updated, err := s.Repo.MarkSellerVerified(ctx, ownerEmail, s.now())
	if err != nil {
		return 0, err
	}
	resolveLogger(s.Logger).Info("seller listings marked verified",
		"event", "catalog_seller_listings_verified",
		"module", "marketplace/catalog-service",
		"layer", "application",
		"owner", ownerEmail,
		"updated", updated,
	)
	return updated, nil
}

func (s Service) DeleteProduct(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	if err := s.Repo.DeleteProduct(ctx, strings.TrimSpace(productID)); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("product deleted",
		"event", "catalog_product_deleted",
		"module", "marketplace/catalog-service",
		"layer", "application",
		"product_id", productID,
	)
	return nil
}

// DeleteReportedProduct is the admin moderation path; it refuses products
// that are not currently flagged.
func (s Service) DeleteReportedProduct(ctx context.Context, productID string) error {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.Reported {
		return domainerrors.ErrProductNotReported
	}
	return s.DeleteProduct(ctx, product.ProductID)
}

// DeleteProductsByOwner clears listings when an admin deletes a seller.
func (s Service) DeleteProductsByOwner(ctx context.Context, ownerEmail string) (int, error) {
	ownerEmail = strings.ToLower(strings.TrimSpace(ownerEmail))
	if ownerEmail == "" {
		return 0, domainerrors.ErrInvalidRequest
	}
	return s.Repo.DeleteProductsByOwner(ctx, ownerEmail)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

package application_test

import (
	"context"
	"errors"
	"testing"

	"phonedeck/contexts/marketplace/catalog-service/adapters/memory"
	"phonedeck/contexts/marketplace/catalog-service/application"
	domainerrors "phonedeck/contexts/marketplace/catalog-service/domain/errors"
	"phonedeck/contexts/marketplace/catalog-service/ports"
)

func newService() (application.Service, *memory.Store) {
	store := memory.NewStore()
	store.SeedSeller(ports.SellerRecord{Email: "sam@example.com", IsSeller: true, Verified: true})
	store.SeedSeller(ports.SellerRecord{Email: "pat@example.com", IsSeller: false})
	return application.Service{
		Repo:    store,
		Sellers: store,
		Clock:   store,
		IDGen:   store,
	}, store
}

func listPhone(t *testing.T, service application.Service) ports.Product {
	t.Helper()
	product, err := service.CreateProduct(context.Background(), "sam@example.com", ports.CreateProductInput{
		Name:       "iPhone 12 Pro",
		CategoryID: "cat_iphone",
		Condition:  "used",
		PriceCents: 45000,
		Location:   "Dhaka",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestCreateProductRequiresSellerRole(t *testing.T) {
	service, _ := newService()

	if _, err := service.CreateProduct(context.Background(), "pat@example.com", ports.CreateProductInput{
		Name:       "Pixel 6",
		PriceCents: 30000,
	}); !errors.Is(err, domainerrors.ErrSellerRoleRequired) {
		t.Fatalf("expected ErrSellerRoleRequired, got %v", err)
	}

	if _, err := service.CreateProduct(context.Background(), "ghost@example.com", ports.CreateProductInput{
		Name:       "Pixel 6",
		PriceCents: 30000,
	}); !errors.Is(err, domainerrors.ErrSellerRoleRequired) {
		t.Fatalf("expected ErrSellerRoleRequired for unknown email, got %v", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	service, _ := newService()

	if _, err := service.CreateProduct(context.Background(), "sam@example.com", ports.CreateProductInput{
		Name:       "",
		PriceCents: 30000,
	}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty name, got %v", err)
	}

	if _, err := service.CreateProduct(context.Background(), "sam@example.com", ports.CreateProductInput{
		Name:       "Pixel 6",
		PriceCents: 0,
	}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for zero price, got %v", err)
	}

	if _, err := service.CreateProduct(context.Background(), "sam@example.com", ports.CreateProductInput{
		Name:       "Pixel 6",
		CategoryID: "cat_nokia",
		PriceCents: 30000,
	}); !errors.Is(err, domainerrors.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCreateProductSnapshotsVerifiedSeller(t *testing.T) {
	service, _ := newService()

	product := listPhone(t, service)
	if !product.VerifiedSeller {
		t.Fatalf("expected verifiedSeller snapshot from directory")
	}
	if product.Status != ports.ProductStatusAvailable || product.Advertised || product.Reported {
		t.Fatalf("unexpected fresh listing state: %+v", product)
	}
}

func TestListProductsByCategoryReturnsAdvertisedOnly(t *testing.T) {
	service, _ := newService()

	advertised := listPhone(t, service)
	listPhone(t, service)
	if _, err := service.AdvertiseProduct(context.Background(), advertised.ProductID); err != nil {
		t.Fatalf("advertise failed: %v", err)
	}

	products, err := service.ListProductsByCategory(context.Background(), "cat_iphone")
	if err != nil {
		t.Fatalf("list by category failed: %v", err)
	}
	if len(products) != 1 || products[0].ProductID != advertised.ProductID {
		t.Fatalf("expected only the advertised listing, got %+v", products)
	}

	if _, err := service.ListProductsByCategory(context.Background(), "cat_nokia"); !errors.Is(err, domainerrors.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestAdvertiseRejectsCompletedProduct(t *testing.T) {
	service, _ := newService()

	product := listPhone(t, service)
	if _, err := service.MarkProductCompleted(context.Background(), product.ProductID); err != nil {
		t.Fatalf("mark completed failed: %v", err)
	}
	if _, err := service.AdvertiseProduct(context.Background(), product.ProductID); !errors.Is(err, domainerrors.ErrProductCompleted) {
		t.Fatalf("expected ErrProductCompleted, got %v", err)
	}
}

func TestMarkCompletedClearsAdvertisedFlag(t *testing.T) {
	service, _ := newService()

	product := listPhone(t, service)
	if _, err := service.AdvertiseProduct(context.Background(), product.ProductID); err != nil {
		t.Fatalf("advertise failed: %v", err)
	}
	completed, err := service.MarkProductCompleted(context.Background(), product.ProductID)
	if err != nil {
		t.Fatalf("mark completed failed: %v", err)
	}
	if completed.Status != ports.ProductStatusCompleted || completed.Advertised {
		t.Fatalf("expected completed unadvertised product, got %+v", completed)
	}
}

func TestDeleteReportedProductRefusesUnreported(t *testing.T) {
	service, _ := newService()

	product := listPhone(t, service)
	if err := service.DeleteReportedProduct(context.Background(), product.ProductID); !errors.Is(err, domainerrors.ErrProductNotReported) {
		t.Fatalf("expected ErrProductNotReported, got %v", err)
	}

	if _, err := service.ReportProduct(context.Background(), product.ProductID); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if err := service.DeleteReportedProduct(context.Background(), product.ProductID); err != nil {
		t.Fatalf("delete reported failed: %v", err)
	}
	if _, err := service.GetProduct(context.Background(), product.ProductID); !errors.Is(err, domainerrors.ErrProductNotFound) {
		t.Fatalf("expected listing gone, got %v", err)
	}
}

func TestMarkSellerVerifiedBackfillsListings(t *testing.T) {
	service, store := newService()
	store.SeedSeller(ports.SellerRecord{Email: "lee@example.com", IsSeller: true, Verified: false})

	product, err := service.CreateProduct(context.Background(), "lee@example.com", ports.CreateProductInput{
		Name:       "Galaxy S21",
		CategoryID: "cat_samsung",
		PriceCents: 52000,
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.VerifiedSeller {
		t.Fatalf("expected unverified snapshot before admin action")
	}

	updated, err := service.MarkSellerVerified(context.Background(), "lee@example.com")
	if err != nil {
		t.Fatalf("mark seller verified failed: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 listing updated, got %d", updated)
	}

	refreshed, err := service.GetProduct(context.Background(), product.ProductID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if !refreshed.VerifiedSeller {
		t.Fatalf("expected verifiedSeller backfilled")
	}
}

func TestDeleteProductsByOwnerRemovesAllListings(t *testing.T) {
	service, _ := newService()

	listPhone(t, service)
	listPhone(t, service)

	deleted, err := service.DeleteProductsByOwner(context.Background(), "sam@example.com")
	if err != nil {
		t.Fatalf("delete by owner failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 listings deleted, got %d", deleted)
	}

	remaining, err := service.ListMyProducts(context.Background(), "sam@example.com")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no remaining listings, got %d", len(remaining))
	}
}

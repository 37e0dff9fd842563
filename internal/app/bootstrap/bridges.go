package bootstrap

import (
	"context"
	"errors"
	"time"

	authzports "phonedeck/contexts/identity-access/authorization-service/ports"
	identityports "phonedeck/contexts/identity-access/identity-service/ports"
	bookingerrors "phonedeck/contexts/marketplace/booking-service/domain/errors"
	bookingports "phonedeck/contexts/marketplace/booking-service/ports"
	catalogapp "phonedeck/contexts/marketplace/catalog-service/application"
	catalogerrors "phonedeck/contexts/marketplace/catalog-service/domain/errors"
	catalogports "phonedeck/contexts/marketplace/catalog-service/ports"

	"github.com/google/uuid"
)

// The bridges below keep each context on its own port types. Contexts never
// import each other; this package adapts one side's port to the other's
// store at construction time.

// identityRoleReader exposes the identity store as the authorization
// engine's RoleReader.
type identityRoleReader struct {
	repo identityports.Repository
}

func (b identityRoleReader) GetRoleRecord(ctx context.Context, email string) (authzports.RoleRecord, bool, error) {
	user, found, err := b.repo.GetUser(ctx, email)
	if err != nil || !found {
		return authzports.RoleRecord{}, false, err
	}
	return authzports.RoleRecord{
		Email:    user.Email,
		Role:     user.Role,
		Status:   user.Status,
		Verified: user.Verified,
	}, true, nil
}

// identityUserRegistry exposes the identity store as the token service's
// UserRegistry.
type identityUserRegistry struct {
	repo identityports.Repository
}

func (b identityUserRegistry) Exists(ctx context.Context, email string) (bool, error) {
	_, found, err := b.repo.GetUser(ctx, email)
	return found, err
}

// identitySellerDirectory exposes the identity store as the catalog's
// SellerDirectory.
type identitySellerDirectory struct {
	repo identityports.Repository
}

func (b identitySellerDirectory) GetSeller(ctx context.Context, email string) (catalogports.SellerRecord, bool, error) {
	user, found, err := b.repo.GetUser(ctx, email)
	if err != nil || !found {
		return catalogports.SellerRecord{}, false, err
	}
	return catalogports.SellerRecord{
		Email:    user.Email,
		IsSeller: user.Role == identityports.RoleSeller,
		Verified: user.Verified,
	}, true, nil
}

// roleCacheInvalidator lets identity mutations drop the authorization
// engine's cached role snapshots.
type roleCacheInvalidator struct {
	cache authzports.RoleCache
}

func (b roleCacheInvalidator) Invalidate(ctx context.Context, email string) error {
	return b.cache.Invalidate(ctx, email)
}

// catalogListingBridge exposes the catalog application as the booking
// service's ProductCatalog.
type catalogListingBridge struct {
	service catalogapp.Service
}

func (b catalogListingBridge) GetListing(ctx context.Context, productID string) (bookingports.Listing, bool, error) {
	product, err := b.service.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			return bookingports.Listing{}, false, nil
		}
		return bookingports.Listing{}, false, err
	}
	return bookingports.Listing{
		ProductID:  product.ProductID,
		Name:       product.Name,
		OwnerEmail: product.OwnerEmail,
		PriceCents: product.PriceCents,
		Status:     product.Status,
		Available:  product.Status == catalogports.ProductStatusAvailable,
	}, true, nil
}

func (b catalogListingBridge) MarkCompleted(ctx context.Context, productID string) error {
	_, err := b.service.MarkProductCompleted(ctx, productID)
	if errors.Is(err, catalogerrors.ErrProductNotFound) {
		return bookingerrors.ErrProductNotFound
	}
	return err
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type uuidGenerator struct{}

func (uuidGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

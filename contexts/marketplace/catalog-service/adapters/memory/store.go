package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "phonedeck/contexts/marketplace/catalog-service/domain/errors"
	"phonedeck/contexts/marketplace/catalog-service/ports"
)

// Store is the in-memory Repository used by tests and local development.
// Categories are seeded with the fixed resale taxonomy.
type Store struct {
	mu             sync.RWMutex
	productsByID   map[string]ports.Product
	categoriesByID map[string]ports.Category
	sellersByEmail map[string]ports.SellerRecord
	sequence       uint64
}

func NewStore() *Store {
	return &Store{
		productsByID: make(map[string]ports.Product),
		categoriesByID: map[string]ports.Category{
			"cat_iphone":  {CategoryID: "cat_iphone", Name: "iPhone"},
			"cat_samsung": {CategoryID: "cat_samsung", Name: "Samsung"},
			"cat_pixel":   {CategoryID: "cat_pixel", Name: "Google Pixel"},
			"cat_xiaomi":  {CategoryID: "cat_xiaomi", Name: "Xiaomi"},
			"cat_others":  {CategoryID: "cat_others", Name: "Others"},
		},
		sellersByEmail: make(map[string]ports.SellerRecord),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("prod_%06d", atomic.AddUint64(&s.sequence, 1)), nil
}

// SeedSeller registers a seller record so CreateProduct can clear the
// directory check without a full identity module.
func (s *Store) SeedSeller(record ports.SellerRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sellersByEmail[strings.ToLower(record.Email)] = record
}

func (s *Store) GetSeller(_ context.Context, email string) (ports.SellerRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, found := s.sellersByEmail[strings.ToLower(email)]
	return record, found, nil
}

func (s *Store) CreateProduct(_ context.Context, product ports.Product) (ports.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.productsByID[product.ProductID] = product
	return product, nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, found := s.productsByID[productID]
	if !found {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	return product, nil
}

func (s *Store) ListProducts(_ context.Context, filter ports.ListFilter) ([]ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Product, 0)
	for _, product := range s.productsByID {
		if filter.CategoryID != "" && product.CategoryID != filter.CategoryID {
			continue
		}
		if filter.AdvertisedOnly && !product.Advertised {
			continue
		}
		items = append(items, product)
	}
	sortProducts(items)
	return items, nil
}

func (s *Store) ListProductsByOwner(_ context.Context, ownerEmail string) ([]ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Product, 0)
	for _, product := range s.productsByID {
		if product.OwnerEmail == strings.ToLower(ownerEmail) {
			items = append(items, product)
		}
	}
	sortProducts(items)
	return items, nil
}

func (s *Store) ListReportedProducts(_ context.Context) ([]ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Product, 0)
	for _, product := range s.productsByID {
		if product.Reported {
			items = append(items, product)
		}
	}
	sortProducts(items)
	return items, nil
}

func (s *Store) ListCategories(_ context.Context) ([]ports.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Category, 0, len(s.categoriesByID))
	for _, category := range s.categoriesByID {
		items = append(items, category)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CategoryID < items[j].CategoryID })
	return items, nil
}

func (s *Store) GetCategory(_ context.Context, categoryID string) (ports.Category, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, found := s.categoriesByID[categoryID]
	return category, found, nil
}

func (s *Store) SetAdvertised(_ context.Context, productID string, advertised bool, now time.Time) (ports.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, found := s.productsByID[productID]
	if !found {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	if product.Status == ports.ProductStatusCompleted {
		return ports.Product{}, domainerrors.ErrProductCompleted
	}
	product.Advertised = advertised
	product.UpdatedAt = now
	s.productsByID[productID] = product
	return product, nil
}

func (s *Store) SetReported(_ context.Context, productID string, now time.Time) (ports.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, found := s.productsByID[productID]
	if !found {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	product.Reported = true
	product.UpdatedAt = now
	s.productsByID[productID] = product
	return product, nil
}

func (s *Store) MarkCompleted(_ context.Context, productID string, now time.Time) (ports.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, found := s.productsByID[productID]
	if !found {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	product.Status = ports.ProductStatusCompleted
	product.Advertised = false
	product.UpdatedAt = now
	s.productsByID[productID] = product
	return product, nil
}

func (s *Store) MarkSellerVerified(_ context.Context, ownerEmail string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for id, product := range s.productsByID {
		if product.OwnerEmail != strings.ToLower(ownerEmail) || product.VerifiedSeller {
			continue
		}
		product.VerifiedSeller = true
		product.UpdatedAt = now
		s.productsByID[id] = product
		updated++
	}
	return updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.productsByID[productID]; !found {
		return domainerrors.ErrProductNotFound
	}
	delete(s.productsByID, productID)
	return nil
}

func (s *Store) DeleteProductsByOwner(_ context.Context, ownerEmail string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, product := range s.productsByID {
		if product.OwnerEmail == strings.ToLower(ownerEmail) {
			delete(s.productsByID, id)
			deleted++
		}
	}
	return deleted, nil
}

func sortProducts(items []ports.Product) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

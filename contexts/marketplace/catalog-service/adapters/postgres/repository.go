package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "phonedeck/contexts/marketplace/catalog-service/domain/errors"
	"phonedeck/contexts/marketplace/catalog-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateProduct(ctx context.Context, product ports.Product) (ports.Product, error) {
	row := productModelFromPort(product)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ports.Product{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) GetProduct(ctx context.Context, productID string) (ports.Product, error) {
	var row productModel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Product{}, domainerrors.ErrProductNotFound
		}
		return ports.Product{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) ListProducts(ctx context.Context, filter ports.ListFilter) ([]ports.Product, error) {
	tx := r.db.WithContext(ctx).Model(&productModel{})
	if filter.CategoryID != "" {
		tx = tx.Where("category_id = ?", filter.CategoryID)
	}
	if filter.AdvertisedOnly {
		tx = tx.Where("advertised = ?", true)
	}
	tx = tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "product_id"}, Desc: false})

	var rows []productModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPortProducts(rows), nil
}

func (r *Repository) ListProductsByOwner(ctx context.Context, ownerEmail string) ([]ports.Product, error) {
	var rows []productModel
	if err := r.db.WithContext(ctx).
		Where("owner_email = ?", strings.ToLower(ownerEmail)).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toPortProducts(rows), nil
}

func (r *Repository) ListReportedProducts(ctx context.Context) ([]ports.Product, error) {
	var rows []productModel
	if err := r.db.WithContext(ctx).
		Where("reported = ?", true).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toPortProducts(rows), nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]ports.Category, error) {
	var rows []categoryModel
	if err := r.db.WithContext(ctx).
		Order("category_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.Category, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Category{CategoryID: row.CategoryID, Name: row.Name})
	}
	return items, nil
}

func (r *Repository) GetCategory(ctx context.Context, categoryID string) (ports.Category, bool, error) {
	var row categoryModel
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Category{}, false, nil
		}
		return ports.Category{}, false, err
	}
	return ports.Category{CategoryID: row.CategoryID, Name: row.Name}, true, nil
}

func (r *Repository) SetAdvertised(ctx context.Context, productID string, advertised bool, now time.Time) (ports.Product, error) {
	result := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("product_id = ? AND status = ?", productID, ports.ProductStatusAvailable).
		Updates(map[string]any{
			"advertised": advertised,
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return ports.Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		product, err := r.GetProduct(ctx, productID)
		if err != nil {
			return ports.Product{}, err
		}
		if product.Status == ports.ProductStatusCompleted {
			return ports.Product{}, domainerrors.ErrProductCompleted
		}
		return product, nil
	}
	return r.GetProduct(ctx, productID)
}

func (r *Repository) SetReported(ctx context.Context, productID string, now time.Time) (ports.Product, error) {
	result := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"reported":   true,
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return ports.Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	return r.GetProduct(ctx, productID)
}

func (r *Repository) MarkCompleted(ctx context.Context, productID string, now time.Time) (ports.Product, error) {
	result := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"status":     ports.ProductStatusCompleted,
			"advertised": false,
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return ports.Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	return r.GetProduct(ctx, productID)
}

func (r *Repository) MarkSellerVerified(ctx context.Context, ownerEmail string, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("owner_email = ? AND verified_seller = ?", strings.ToLower(ownerEmail), false).
		Updates(map[string]any{
			"verified_seller": true,
			"updated_at":      now.UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) DeleteProduct(ctx context.Context, productID string) error {
	result := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&productModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProductNotFound
	}
	return nil
}

func (r *Repository) DeleteProductsByOwner(ctx context.Context, ownerEmail string) (int, error) {
	result := r.db.WithContext(ctx).
		Where("owner_email = ?", strings.ToLower(ownerEmail)).
		Delete(&productModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

type productModel struct {
	ProductID      string    `gorm:"column:product_id;primaryKey"`
	OwnerEmail     string    `gorm:"column:owner_email"`
	Name           string    `gorm:"column:name"`
	CategoryID     string    `gorm:"column:category_id"`
	Condition      string    `gorm:"column:condition"`
	PriceCents     int64     `gorm:"column:price_cents"`
	Description    string    `gorm:"column:description"`
	Location       string    `gorm:"column:location"`
	Advertised     bool      `gorm:"column:advertised"`
	Reported       bool      `gorm:"column:reported"`
	VerifiedSeller bool      `gorm:"column:verified_seller"`
	Status         string    `gorm:"column:status"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (productModel) TableName() string {
	return "products"
}

type categoryModel struct {
	CategoryID string `gorm:"column:category_id;primaryKey"`
	Name       string `gorm:"column:name"`
}

func (categoryModel) TableName() string {
	return "categories"
}

func productModelFromPort(product ports.Product) productModel {
	return productModel{
		ProductID:      product.ProductID,
		OwnerEmail:     strings.ToLower(product.OwnerEmail),
		Name:           product.Name,
		CategoryID:     product.CategoryID,
		Condition:      product.Condition,
		PriceCents:     product.PriceCents,
		Description:    product.Description,
		Location:       product.Location,
		Advertised:     product.Advertised,
		Reported:       product.Reported,
		VerifiedSeller: product.VerifiedSeller,
		Status:         product.Status,
		CreatedAt:      product.CreatedAt.UTC(),
		UpdatedAt:      product.UpdatedAt.UTC(),
	}
}

func (m productModel) toPort() ports.Product {
	return ports.Product{
		ProductID:      m.ProductID,
		OwnerEmail:     m.OwnerEmail,
		Name:           m.Name,
		CategoryID:     m.CategoryID,
		Condition:      m.Condition,
		PriceCents:     m.PriceCents,
		Description:    m.Description,
		Location:       m.Location,
		Advertised:     m.Advertised,
		Reported:       m.Reported,
		VerifiedSeller: m.VerifiedSeller,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func toPortProducts(rows []productModel) []ports.Product {
	items := make([]ports.Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items
}

package httpadapter

import (
	"context"
	"log/slog"

	"phonedeck/contexts/marketplace/catalog-service/application"
	"phonedeck/contexts/marketplace/catalog-service/ports"
	httptransport "phonedeck/contexts/marketplace/catalog-service/transport/http"
)

// Handler maps HTTP DTOs to application calls.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateProductHandler(
	ctx context.Context,
	ownerEmail string,
	request httptransport.CreateProductRequest,
) (httptransport.ProductDTO, error) {
	product, err := h.Service.CreateProduct(ctx, ownerEmail, ports.CreateProductInput{
		Name:        request.Name,
		CategoryID:  request.CategoryID,
		Condition:   request.Condition,
		PriceCents:  request.PriceCents,
		Description: request.Description,
		Location:    request.Location,
	})
	if err != nil {
		return httptransport.ProductDTO{}, err
	}
	return productDTO(product), nil
}

func (h Handler) GetProductHandler(ctx context.Context, productID string) (httptransport.ProductDTO, error) {
	product, err := h.Service.GetProduct(ctx, productID)
	if err != nil {
		return httptransport.ProductDTO{}, err
	}
	return productDTO(product), nil
}

func (h Handler) ListProductsHandler(ctx context.Context, filter ports.ListFilter) (httptransport.ListProductsResponse, error) {
	products, err := h.Service.ListProducts(ctx, filter)
	if err != nil {
		return httptransport.ListProductsResponse{}, err
	}
	return listResponse(products), nil
}

func (h Handler) ListCategoriesHandler(ctx context.Context) (httptransport.ListCategoriesResponse, error) {
	categories, err := h.Service.ListCategories(ctx)
	if err != nil {
		return httptransport.ListCategoriesResponse{}, err
	}
	items := make([]httptransport.CategoryDTO, 0, len(categories))
	for _, category := range categories {
		items = append(items, httptransport.CategoryDTO{
			CategoryID: category.CategoryID,
			Name:       category.Name,
		})
	}
	return httptransport.ListCategoriesResponse{Categories: items}, nil
}

func (h Handler) ListProductsByCategoryHandler(ctx context.Context, categoryID string) (httptransport.ListProductsResponse, error) {
	products, err := h.Service.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return httptransport.ListProductsResponse{}, err
	}
	return listResponse(products), nil
}

func (h Handler) ListMyProductsHandler(ctx context.Context, ownerEmail string) (httptransport.ListProductsResponse, error) {
	products, err := h.Service.ListMyProducts(ctx, ownerEmail)
	if err != nil {
		return httptransport.ListProductsResponse{}, err
	}
	return listResponse(products), nil
}

func (h Handler) ListReportedProductsHandler(ctx context.Context) (httptransport.ListProductsResponse, error) {
	products, err := h.Service.ListReportedProducts(ctx)
	if err != nil {
		return httptransport.ListProductsResponse{}, err
	}
	return listResponse(products), nil
}

func (h Handler) AdvertiseProductHandler(ctx context.Context, productID string) (httptransport.ProductDTO, error) {
	product, err := h.Service.AdvertiseProduct(ctx, productID)
	if err != nil {
		return httptransport.ProductDTO{}, err
	}
	return productDTO(product), nil
}

func (h Handler) ReportProductHandler(ctx context.Context, productID string) (httptransport.ProductDTO, error) {
	product, err := h.Service.ReportProduct(ctx, productID)
	if err != nil {
		return httptransport.ProductDTO{}, err
	}
	return productDTO(product), nil
}

func (h Handler) VerifySellerListingsHandler(ctx context.Context, ownerEmail string) (httptransport.VerifySellerListingsResponse, error) {
	updated, err := h.Service.MarkSellerVerified(ctx, ownerEmail)
	if err != nil {
		return httptransport.VerifySellerListingsResponse{}, err
	}
	return httptransport.VerifySellerListingsResponse{
		OwnerEmail: ownerEmail,
		Updated:    updated,
	}, nil
}

func (h Handler) DeleteProductHandler(ctx context.Context, productID string) (httptransport.DeleteProductResponse, error) {
	if err := h.Service.DeleteProduct(ctx, productID); err != nil {
		return httptransport.DeleteProductResponse{}, err
	}
	return httptransport.DeleteProductResponse{
		Acknowledged: true,
		ProductID:    productID,
	}, nil
}

func (h Handler) DeleteReportedProductHandler(ctx context.Context, productID string) (httptransport.DeleteProductResponse, error) {
	if err := h.Service.DeleteReportedProduct(ctx, productID); err != nil {
		return httptransport.DeleteProductResponse{}, err
	}
	return httptransport.DeleteProductResponse{
		Acknowledged: true,
		ProductID:    productID,
	}, nil
}

func productDTO(product ports.Product) httptransport.ProductDTO {
	return httptransport.ProductDTO{
		ProductID:      product.ProductID,
		OwnerEmail:     product.OwnerEmail,
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
		CreatedAt:      product.CreatedAt,
	}
}

func listResponse(products []ports.Product) httptransport.ListProductsResponse {
	items := make([]httptransport.ProductDTO, 0, len(products))
	for _, product := range products {
		items = append(items, productDTO(product))
	}
	return httptransport.ListProductsResponse{Products: items}
}

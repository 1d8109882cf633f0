// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dealradar/dealradar-backend/internal/models"
	"github.com/dealradar/dealradar-backend/internal/utils"
)

// historyWindow is how many recent observations the product detail carries.
const historyWindow = 30

type ProductService struct {
	db             *gorm.DB
	pricingService *PricingService
}

type CreateProductRequest struct {
	Title           string                `json:"title" validate:"required,min=3,max=500"`
	Platform        string                `json:"platform" validate:"required,max=50"`
	Category        string                `json:"category" validate:"required,max=50"`
	CurrentPrice    decimal.Decimal       `json:"current_price"`
	OriginalPrice   decimal.Decimal       `json:"original_price"`
	DiscountPercent int                   `json:"discount_percent" validate:"min=0,max=100"`
	ImageURL        string                `json:"image_url" validate:"required,url,max=1000"`
	ProductURL      string                `json:"product_url" validate:"required,url,max=1000"`
	RealDealStatus  models.RealDealStatus `json:"real_deal_status" validate:"omitempty,oneof=real normal fake"`
}

type UpdateProductRequest struct {
	Title           *string                `json:"title,omitempty" validate:"omitempty,min=3,max=500"`
	Category        *string                `json:"category,omitempty" validate:"omitempty,max=50"`
	CurrentPrice    *decimal.Decimal       `json:"current_price,omitempty"`
	OriginalPrice   *decimal.Decimal       `json:"original_price,omitempty"`
	DiscountPercent *int                   `json:"discount_percent,omitempty" validate:"omitempty,min=0,max=100"`
	ImageURL        *string                `json:"image_url,omitempty" validate:"omitempty,url,max=1000"`
	ProductURL      *string                `json:"product_url,omitempty" validate:"omitempty,url,max=1000"`
	RealDealStatus  *models.RealDealStatus `json:"real_deal_status,omitempty" validate:"omitempty,oneof=real normal fake"`
}

type ProductDetail struct {
	Product *models.Product       `json:"product"`
	History []models.PriceHistory `json:"price_history"`
}

func NewProductService(db *gorm.DB, pricingService *PricingService) *ProductService {
	return &ProductService{
		db:             db,
		pricingService: pricingService,
	}
}

func (s *ProductService) ListProducts(params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	// "all" is the catch-all category sent by the listing UI
	if params.Category != "" && params.Category != "all" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Platform != "" {
		query = query.Where("platform = ?", params.Platform)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"discount_percent", "current_price", "created_at", "updated_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// GetProduct returns the product plus its most recent price observations,
// newest first.
func (s *ProductService) GetProduct(id uuid.UUID) (*ProductDetail, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var history []models.PriceHistory
	if err := s.db.Where("product_id = ?", id).
		Order("recorded_at DESC").
		Limit(historyWindow).
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch price history: %w", err)
	}

	return &ProductDetail{
		Product: &product,
		History: history,
	}, nil
}

// CreateProduct stores a new listing and seeds its history with the first
// observation at the current price.
func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.CurrentPrice.IsNegative() || req.OriginalPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	status := req.RealDealStatus
	if status == "" {
		status = models.RealDealStatusNormal
	}

	product := &models.Product{
		Title:           req.Title,
		Platform:        req.Platform,
		Category:        req.Category,
		CurrentPrice:    req.CurrentPrice,
		OriginalPrice:   req.OriginalPrice,
		DiscountPercent: req.DiscountPercent,
		ImageURL:        req.ImageURL,
		ProductURL:      req.ProductURL,
		RealDealStatus:  status,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		entry := &models.PriceHistory{
			ProductID: product.ID,
			Price:     product.CurrentPrice,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to seed price history: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct patches listing fields. A price change routes through the
// pricing service so history and alert evaluation stay in lockstep with the
// stored price; other fields patch in place.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, []TriggeredAlert, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}

	// Every field must be vetted before the price change commits; a rejection
	// after the ingest would leave the price moved and its alert events lost.
	if req.CurrentPrice != nil && req.CurrentPrice.IsNegative() {
		return nil, nil, ErrInvalidPrice
	}
	if req.OriginalPrice != nil && req.OriginalPrice.IsNegative() {
		return nil, nil, ErrInvalidPrice
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProductNotFound
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	triggered := []TriggeredAlert{}
	if req.CurrentPrice != nil {
		result, err := s.pricingService.Ingest(ctx, id, *req.CurrentPrice)
		if err != nil {
			return nil, nil, err
		}
		if result.Changed {
			triggered = result.TriggeredAlerts
		}
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = *req.OriginalPrice
	}
	if req.DiscountPercent != nil {
		updates["discount_percent"] = *req.DiscountPercent
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.ProductURL != nil {
		updates["product_url"] = *req.ProductURL
	}
	if req.RealDealStatus != nil {
		updates["real_deal_status"] = *req.RealDealStatus
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	// Reload so the response reflects the pricing service's writes too
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to reload product: %w", err)
	}

	return &product, triggered, nil
}

// DeleteProduct removes the listing together with its history and every
// favorite and alert that references it.
func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.PriceHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete price history: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.PriceAlert{}).Error; err != nil {
			return fmt.Errorf("failed to delete alerts: %w", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		return nil
	})
}

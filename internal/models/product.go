// internal/models/product.go
package models

import (
	"github.com/shopspring/decimal"
)

// Product is one scraped discount listing. CurrentPrice always mirrors the
// newest PriceHistory entry for the product.
type Product struct {
	BaseModel
	Title           string          `json:"title" gorm:"size:500;not null"`
	Platform        string          `json:"platform" gorm:"size:50;not null;index"`
	Category        string          `json:"category" gorm:"size:50;not null;index"`
	CurrentPrice    decimal.Decimal `json:"current_price" gorm:"type:decimal(12,2);not null"`
	OriginalPrice   decimal.Decimal `json:"original_price" gorm:"type:decimal(12,2);not null"`
	DiscountPercent int             `json:"discount_percent" gorm:"not null;index"`
	ImageURL        string          `json:"image_url" gorm:"size:1000;not null"`
	ProductURL      string          `json:"product_url" gorm:"size:1000;not null"`
	RealDealStatus  RealDealStatus  `json:"real_deal_status" gorm:"type:varchar(20);default:'normal'"`

	// Relationships
	PriceHistory []PriceHistory `json:"price_history,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

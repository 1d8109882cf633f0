// internal/models/price_alert.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceAlert is a user's standing request to be notified once the product's
// observed price reaches or drops below TargetPrice. An alert stays active
// until its owner deletes or deactivates it; firing does not change state, so
// an active alert fires again on every qualifying price change.
type PriceAlert struct {
	BaseModel
	UserID      uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index:idx_price_alerts_product_active"`
	TargetPrice decimal.Decimal `json:"target_price" gorm:"type:decimal(12,2);not null"`
	IsActive    bool            `json:"is_active" gorm:"not null;default:true;index:idx_price_alerts_product_active"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// internal/models/price_history.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceHistory is one immutable observation of a product price. Rows are only
// ever inserted; RecordedAt is non-decreasing per product in insertion order.
type PriceHistory struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	ProductID  uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	RecordedAt time.Time       `json:"recorded_at" gorm:"not null;index"`
}

func (h *PriceHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.RecordedAt.IsZero() {
		h.RecordedAt = time.Now().UTC()
	}
	return nil
}

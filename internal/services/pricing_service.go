// internal/services/pricing_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dealradar/dealradar-backend/internal/models"
)

var (
	ErrInvalidPrice    = errors.New("price must be a non-negative amount")
	ErrProductNotFound = errors.New("product not found")
	ErrStorageConflict = errors.New("price update conflicted with a concurrent transaction")
)

// conflictAttempts bounds transparent retries on serialization failures
// before the conflict is surfaced to the caller.
const conflictAttempts = 3

// TriggeredAlert is the data event emitted for every alert whose condition
// became true during a price update. Delivery is the caller's concern.
type TriggeredAlert struct {
	AlertID     uuid.UUID       `json:"alert_id"`
	UserID      uuid.UUID       `json:"user_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	TargetPrice decimal.Decimal `json:"target_price"`
	NewPrice    decimal.Decimal `json:"new_price"`
}

type ChangeResult struct {
	Changed         bool             `json:"changed"`
	OldPrice        decimal.Decimal  `json:"old_price"`
	NewPrice        decimal.Decimal  `json:"new_price"`
	TriggeredAlerts []TriggeredAlert `json:"triggered_alerts"`
}

// PricingService ingests observed prices: it appends history, keeps
// Product.CurrentPrice in sync, and evaluates the product's active alerts.
// All of that happens in one transaction per changed price, serialized per
// product through a row lock so two concurrent updates cannot both read the
// same stale price.
type PricingService struct {
	db *gorm.DB
}

func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{db: db}
}

// Ingest records a newly observed price for a product.
//
// An unchanged price (exact equality, no epsilon) is a no-op: no history row,
// no alert evaluation. A changed price atomically appends a history entry,
// moves CurrentPrice, and returns the alerts that fired.
func (s *PricingService) Ingest(ctx context.Context, productID uuid.UUID, newPrice decimal.Decimal) (*ChangeResult, error) {
	if newPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	return withConflictRetry(func() (*ChangeResult, error) {
		return s.ingestOnce(ctx, productID, newPrice)
	})
}

// withConflictRetry reruns fn on serialization failures up to
// conflictAttempts times, then surfaces ErrStorageConflict. Any other error
// returns immediately.
func withConflictRetry(fn func() (*ChangeResult, error)) (*ChangeResult, error) {
	var lastErr error
	for attempt := 0; attempt < conflictAttempts; attempt++ {
		result, err := fn()
		if err == nil || !isSerializationFailure(err) {
			return result, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrStorageConflict, lastErr)
}

func (s *PricingService) ingestOnce(ctx context.Context, productID uuid.UUID, newPrice decimal.Decimal) (*ChangeResult, error) {
	result := &ChangeResult{
		NewPrice:        newPrice,
		TriggeredAlerts: []TriggeredAlert{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		// SQLite has no row locks; writes serialize on the database lock there.
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var product models.Product
		if err := query.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		result.OldPrice = product.CurrentPrice
		if product.CurrentPrice.Equal(newPrice) {
			return nil
		}
		result.Changed = true

		now := time.Now().UTC()
		entry := &models.PriceHistory{
			ProductID:  product.ID,
			Price:      newPrice,
			RecordedAt: now,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append price history: %w", err)
		}

		if err := tx.Model(&product).Updates(map[string]interface{}{
			"current_price": newPrice,
			"updated_at":    now,
		}).Error; err != nil {
			return fmt.Errorf("failed to update product price: %w", err)
		}

		triggered, err := s.evaluateAlerts(tx, product.ID, newPrice)
		if err != nil {
			return err
		}
		result.TriggeredAlerts = triggered

		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// evaluateAlerts scans the product's active alerts inside the caller's
// transaction and applies the firing rule: an alert fires iff the new price
// is at or below its target. Only the new price matters; an alert that stays
// active fires again on the next qualifying change.
func (s *PricingService) evaluateAlerts(tx *gorm.DB, productID uuid.UUID, newPrice decimal.Decimal) ([]TriggeredAlert, error) {
	var alerts []models.PriceAlert
	if err := tx.Where("product_id = ? AND is_active = ?", productID, true).
		Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to scan active alerts: %w", err)
	}

	triggered := make([]TriggeredAlert, 0, len(alerts))
	for _, alert := range alerts {
		if newPrice.LessThanOrEqual(alert.TargetPrice) {
			triggered = append(triggered, TriggeredAlert{
				AlertID:     alert.ID,
				UserID:      alert.UserID,
				ProductID:   alert.ProductID,
				TargetPrice: alert.TargetPrice,
				NewPrice:    newPrice,
			})
		}
	}

	return triggered, nil
}

// isSerializationFailure reports whether err is a transaction conflict worth
// retrying (SQLSTATE 40001 serialization_failure or 40P01 deadlock_detected).
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

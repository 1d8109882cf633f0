// internal/services/alert_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dealradar/dealradar-backend/internal/models"
	"github.com/dealradar/dealradar-backend/internal/utils"
)

var (
	ErrAlertNotFound      = errors.New("alert not found")
	ErrInvalidTargetPrice = errors.New("target price must be positive")
)

type AlertService struct {
	db *gorm.DB
}

type CreateAlertRequest struct {
	ProductID   uuid.UUID       `json:"product_id" validate:"required"`
	TargetPrice decimal.Decimal `json:"target_price"`
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db}
}

// ListAlerts returns the user's active alerts with their product summaries
// preloaded in a single extra query.
func (s *AlertService) ListAlerts(userID uuid.UUID) ([]models.PriceAlert, error) {
	var alerts []models.PriceAlert
	if err := s.db.Preload("Product").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch alerts: %w", err)
	}
	return alerts, nil
}

// CreateAlert registers a new active watch. Duplicates on the same product
// are allowed; each fires independently.
func (s *AlertService) CreateAlert(userID uuid.UUID, req *CreateAlertRequest) (*models.PriceAlert, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.TargetPrice.IsPositive() {
		return nil, ErrInvalidTargetPrice
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	alert := &models.PriceAlert{
		UserID:      userID,
		ProductID:   req.ProductID,
		TargetPrice: req.TargetPrice,
		IsActive:    true,
	}
	if err := s.db.Create(alert).Error; err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	return alert, nil
}

// DeactivateAlert flips the user's alert to inactive. This is the only
// active -> inactive transition in the alert lifecycle.
func (s *AlertService) DeactivateAlert(userID, alertID uuid.UUID) error {
	result := s.db.Model(&models.PriceAlert{}).
		Where("id = ? AND user_id = ? AND is_active = ?", alertID, userID, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (s *AlertService) DeleteAlert(userID, alertID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", alertID, userID).
		Delete(&models.PriceAlert{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// internal/services/stats_service.go
package services

import (
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/dealradar/dealradar-backend/internal/models"
)

// dealThresholdPercent is the discount at which a listing counts as a deal.
const dealThresholdPercent = 20

type StatsService struct {
	db *gorm.DB
}

type CatalogStats struct {
	TotalProducts int64   `json:"total_products"`
	TotalDeals    int64   `json:"total_deals"`
	AvgDiscount   float64 `json:"avg_discount"`
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

func (s *StatsService) GetCatalogStats() (*CatalogStats, error) {
	stats := &CatalogStats{}

	if err := s.db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if err := s.db.Model(&models.Product{}).
		Where("discount_percent >= ?", dealThresholdPercent).
		Count(&stats.TotalDeals).Error; err != nil {
		return nil, fmt.Errorf("failed to count deals: %w", err)
	}

	var avgDiscount float64
	if err := s.db.Model(&models.Product{}).
		Select("COALESCE(AVG(discount_percent), 0)").
		Scan(&avgDiscount).Error; err != nil {
		return nil, fmt.Errorf("failed to compute average discount: %w", err)
	}
	stats.AvgDiscount = math.Round(avgDiscount*100) / 100

	return stats, nil
}

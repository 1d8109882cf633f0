// internal/services/favorite_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealradar/dealradar-backend/internal/models"
)

var (
	ErrAlreadyFavorited = errors.New("product is already in favorites")
	ErrFavoriteNotFound = errors.New("product is not in favorites")
)

type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// ListFavorites returns the user's favorited products in one join query.
func (s *FavoriteService) ListFavorites(userID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.
		Joins("JOIN favorites ON favorites.product_id = products.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	return products, nil
}

func (s *FavoriteService) AddFavorite(userID, productID uuid.UUID) (*models.Favorite, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var existing models.Favorite
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyFavorited
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	favorite := &models.Favorite{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.db.Create(favorite).Error; err != nil {
		return nil, fmt.Errorf("failed to create favorite: %w", err)
	}

	return favorite, nil
}

func (s *FavoriteService) RemoveFavorite(userID, productID uuid.UUID) error {
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// internal/services/testdb_test.go
package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dealradar/dealradar-backend/internal/models"
)

// newTestDB opens a fresh in-memory database named after the test, so suites
// running in the same process never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.PriceHistory{},
		&models.Favorite{},
		&models.PriceAlert{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		UserType: models.UserTypeUser,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, title, price string) *models.Product {
	t.Helper()

	product := &models.Product{
		Title:           title,
		Platform:        "coupang",
		Category:        "electronics",
		CurrentPrice:    decimal.RequireFromString(price),
		OriginalPrice:   decimal.RequireFromString(price),
		DiscountPercent: 0,
		ImageURL:        "https://example.com/image.jpg",
		ProductURL:      "https://example.com/product",
		RealDealStatus:  models.RealDealStatusNormal,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

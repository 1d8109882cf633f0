// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dealradar/dealradar-backend/internal/config"
	"github.com/dealradar/dealradar-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.PriceHistory{},
		&models.Favorite{},
		&models.PriceAlert{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_platform ON products(category, platform)",
		"CREATE INDEX IF NOT EXISTS idx_products_discount ON products(discount_percent DESC)",
		"CREATE INDEX IF NOT EXISTS idx_price_histories_product_recorded ON price_histories(product_id, recorded_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_price_alerts_user ON price_alerts(user_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedSampleData fills an empty catalog with a few listings so a fresh
// development database has something to serve.
func SeedSampleData(db *gorm.DB) error {
	var productCount int64
	if err := db.Model(&models.Product{}).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount > 0 {
		return nil
	}

	logrus.Info("Seeding sample data...")

	sampleProducts := []models.Product{
		{
			Title:           "iPhone 15 Pro Max 256GB",
			Platform:        "Trendyol",
			Category:        "electronics",
			CurrentPrice:    decimal.NewFromInt(67499),
			OriginalPrice:   decimal.NewFromInt(89999),
			DiscountPercent: 25,
			ImageURL:        "https://images.unsplash.com/photo-1696446702001-80b18e0879f9?w=500&q=80",
			ProductURL:      "https://www.trendyol.com",
			RealDealStatus:  models.RealDealStatusReal,
		},
		{
			Title:           "Samsung 65\" QLED 4K Smart TV",
			Platform:        "Hepsiburada",
			Category:        "electronics",
			CurrentPrice:    decimal.NewFromInt(32999),
			OriginalPrice:   decimal.NewFromInt(45999),
			DiscountPercent: 28,
			ImageURL:        "https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?w=500&q=80",
			ProductURL:      "https://www.hepsiburada.com",
			RealDealStatus:  models.RealDealStatusReal,
		},
		{
			Title:           "Nike Air Max 270 Sneakers",
			Platform:        "N11",
			Category:        "fashion",
			CurrentPrice:    decimal.NewFromInt(2999),
			OriginalPrice:   decimal.NewFromInt(4999),
			DiscountPercent: 40,
			ImageURL:        "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=500&q=80",
			ProductURL:      "https://www.n11.com",
			RealDealStatus:  models.RealDealStatusReal,
		},
	}

	for i := range sampleProducts {
		product := &sampleProducts[i]
		err := WithTransaction(db, func(tx *gorm.DB) error {
			if err := tx.Create(product).Error; err != nil {
				return err
			}
			entry := &models.PriceHistory{
				ProductID: product.ID,
				Price:     product.CurrentPrice,
			}
			return tx.Create(entry).Error
		})
		if err != nil {
			return fmt.Errorf("failed to seed product %q: %w", product.Title, err)
		}
	}

	logrus.Info("Sample data seeded")
	return nil
}

// SeedInitialData creates the default admin account if none exists.
func SeedInitialData(db *gorm.DB) error {
	var adminCount int64
	if err := db.Model(&models.User{}).
		Where("user_type = ?", models.UserTypeAdmin).
		Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if adminCount > 0 {
		return nil
	}

	admin := &models.User{
		Email:    "admin@dealradar.app",
		UserType: models.UserTypeAdmin,
	}
	if err := admin.SetPassword("admin123!@#"); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.Info("Default admin user created")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// internal/database/connection_test.go
package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dealradar/dealradar-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestRunMigrationsAndSeeds(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, RunMigrations(db))

	require.NoError(t, SeedInitialData(db))
	require.NoError(t, SeedSampleData(db))

	var adminCount int64
	require.NoError(t, db.Model(&models.User{}).
		Where("user_type = ?", models.UserTypeAdmin).Count(&adminCount).Error)
	assert.Equal(t, int64(1), adminCount)

	var productCount int64
	require.NoError(t, db.Model(&models.Product{}).Count(&productCount).Error)
	assert.Equal(t, int64(3), productCount)

	// Each seeded listing carries its first observation
	var historyCount int64
	require.NoError(t, db.Model(&models.PriceHistory{}).Count(&historyCount).Error)
	assert.Equal(t, int64(3), historyCount)

	// Seeding again is a no-op
	require.NoError(t, SeedInitialData(db))
	require.NoError(t, SeedSampleData(db))
	require.NoError(t, db.Model(&models.Product{}).Count(&productCount).Error)
	assert.Equal(t, int64(3), productCount)
}

func TestWithTransactionCommits(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, RunMigrations(db))

	err := WithTransaction(db, func(tx *gorm.DB) error {
		user := &models.User{Email: "committed@example.com", UserType: models.UserTypeUser}
		if err := user.SetPassword("password123"); err != nil {
			return err
		}
		return tx.Create(user).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "committed@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, RunMigrations(db))

	boom := errors.New("nope")
	err := WithTransaction(db, func(tx *gorm.DB) error {
		user := &models.User{Email: "discarded@example.com", UserType: models.UserTypeUser}
		if err := user.SetPassword("password123"); err != nil {
			return err
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "discarded@example.com").Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

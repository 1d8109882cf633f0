// internal/services/favorite_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/dealradar/dealradar-backend/internal/models"
)

type FavoriteServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *FavoriteService
	user    *models.User
	product *models.Product
}

func (suite *FavoriteServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewFavoriteService(suite.db)
	suite.user = createTestUser(suite.T(), suite.db, "favorites@example.com")
	suite.product = createTestProduct(suite.T(), suite.db, "Desk Chair", "199.00")
}

func (suite *FavoriteServiceTestSuite) TestAddFavorite() {
	favorite, err := suite.service.AddFavorite(suite.user.ID, suite.product.ID)
	suite.NoError(err)
	suite.Equal(suite.user.ID, favorite.UserID)
	suite.Equal(suite.product.ID, favorite.ProductID)
}

func (suite *FavoriteServiceTestSuite) TestAddFavoriteTwice() {
	_, err := suite.service.AddFavorite(suite.user.ID, suite.product.ID)
	suite.NoError(err)

	_, err = suite.service.AddFavorite(suite.user.ID, suite.product.ID)
	suite.ErrorIs(err, ErrAlreadyFavorited)
}

func (suite *FavoriteServiceTestSuite) TestAddFavoriteUnknownProduct() {
	_, err := suite.service.AddFavorite(suite.user.ID, uuid.New())
	suite.ErrorIs(err, ErrProductNotFound)
}

func (suite *FavoriteServiceTestSuite) TestListFavoritesScopedToUser() {
	other := createTestUser(suite.T(), suite.db, "someone@example.com")
	second := createTestProduct(suite.T(), suite.db, "Standing Desk", "450.00")

	_, err := suite.service.AddFavorite(suite.user.ID, suite.product.ID)
	suite.NoError(err)
	_, err = suite.service.AddFavorite(suite.user.ID, second.ID)
	suite.NoError(err)
	_, err = suite.service.AddFavorite(other.ID, suite.product.ID)
	suite.NoError(err)

	products, err := suite.service.ListFavorites(suite.user.ID)
	suite.NoError(err)
	suite.Len(products, 2)

	products, err = suite.service.ListFavorites(other.ID)
	suite.NoError(err)
	suite.Require().Len(products, 1)
	suite.Equal(suite.product.ID, products[0].ID)
}

func (suite *FavoriteServiceTestSuite) TestRemoveFavorite() {
	_, err := suite.service.AddFavorite(suite.user.ID, suite.product.ID)
	suite.NoError(err)

	suite.NoError(suite.service.RemoveFavorite(suite.user.ID, suite.product.ID))
	suite.ErrorIs(suite.service.RemoveFavorite(suite.user.ID, suite.product.ID), ErrFavoriteNotFound)
}

func TestFavoriteServiceSuite(t *testing.T) {
	suite.Run(t, new(FavoriteServiceTestSuite))
}

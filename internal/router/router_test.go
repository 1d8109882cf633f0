// internal/router/router_test.go
package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dealradar/dealradar-backend/internal/config"
	"github.com/dealradar/dealradar-backend/internal/models"
	"github.com/dealradar/dealradar-backend/internal/utils"
)

type RouterTestSuite struct {
	suite.Suite
	db         *gorm.DB
	router     *gin.Engine
	userToken  string
	adminToken string
	user       *models.User
}

func (suite *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:router_suite?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.PriceHistory{},
		&models.Favorite{},
		&models.PriceAlert{},
	))
	suite.db = db

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "router-test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:8000"},
		},
	}
	suite.router = Initialize(db, cfg)

	// Tokens are minted directly so the test traffic stays off the
	// rate-limited auth endpoints.
	user := &models.User{Email: "shopper@example.com", UserType: models.UserTypeUser}
	suite.Require().NoError(user.SetPassword("password123"))
	suite.Require().NoError(db.Create(user).Error)
	suite.user = user

	admin := &models.User{Email: "ops@example.com", UserType: models.UserTypeAdmin}
	suite.Require().NoError(admin.SetPassword("password123"))
	suite.Require().NoError(db.Create(admin).Error)

	suite.userToken, err = utils.GenerateJWT(user.ID, string(user.UserType), 1)
	suite.Require().NoError(err)
	suite.adminToken, err = utils.GenerateJWT(admin.ID, string(admin.UserType), 1)
	suite.Require().NoError(err)
}

func (suite *RouterTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *RouterTestSuite) TestHealthCheck() {
	w := suite.request(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)

	response := suite.decode(w)
	suite.Equal("healthy", response["status"])
}

func (suite *RouterTestSuite) TestAuthRegisterAndLogin() {
	w := suite.request(http.MethodPost, "/v1/auth/register", "", map[string]interface{}{
		"email":    "fresh@example.com",
		"password": "password123",
	})
	suite.Equal(http.StatusCreated, w.Code)

	response := suite.decode(w)
	suite.True(response["success"].(bool))
	data := response["data"].(map[string]interface{})
	suite.NotEmpty(data["token"])

	w = suite.request(http.MethodPost, "/v1/auth/login", "", map[string]interface{}{
		"email":    "fresh@example.com",
		"password": "password123",
	})
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RouterTestSuite) TestFavoritesRequireAuth() {
	w := suite.request(http.MethodGet, "/v1/favorites", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *RouterTestSuite) TestAdminRoutesRejectRegularUsers() {
	w := suite.request(http.MethodPost, "/v1/admin/products", suite.userToken, map[string]interface{}{})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *RouterTestSuite) TestDealLifecycle() {
	// Admin lists a new discounted product
	w := suite.request(http.MethodPost, "/v1/admin/products", suite.adminToken, map[string]interface{}{
		"title":            "Noise Cancelling Headphones",
		"platform":         "coupang",
		"category":         "electronics",
		"current_price":    100.00,
		"original_price":   150.00,
		"discount_percent": 33,
		"image_url":        "https://example.com/headphones.jpg",
		"product_url":      "https://example.com/headphones",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	response := suite.decode(w)
	product := response["data"].(map[string]interface{})["product"].(map[string]interface{})
	productID := product["id"].(string)

	// Shopper favorites it and sets a price alert at 90
	w = suite.request(http.MethodPost, "/v1/favorites", suite.userToken, map[string]interface{}{
		"product_id": productID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.request(http.MethodPost, "/v1/alerts", suite.userToken, map[string]interface{}{
		"product_id":   productID,
		"target_price": 90.00,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	// A price drop above the target fires nothing
	w = suite.request(http.MethodPut, "/v1/admin/products/"+productID, suite.adminToken, map[string]interface{}{
		"current_price": 95.00,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	response = suite.decode(w)
	triggered := response["data"].(map[string]interface{})["triggered_alerts"].([]interface{})
	suite.Empty(triggered)

	// A drop through the target fires the alert
	w = suite.request(http.MethodPut, "/v1/admin/products/"+productID, suite.adminToken, map[string]interface{}{
		"current_price": 85.00,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	response = suite.decode(w)
	triggered = response["data"].(map[string]interface{})["triggered_alerts"].([]interface{})
	suite.Require().Len(triggered, 1)
	event := triggered[0].(map[string]interface{})
	suite.Equal(suite.user.ID.String(), event["user_id"])

	// Detail view carries the accumulated history, newest first
	w = suite.request(http.MethodGet, "/v1/products/"+productID, "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	response = suite.decode(w)
	history := response["data"].(map[string]interface{})["price_history"].([]interface{})
	suite.Len(history, 3)

	// The alert stayed active after firing
	w = suite.request(http.MethodGet, "/v1/alerts", suite.userToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	response = suite.decode(w)
	alerts := response["data"].(map[string]interface{})["alerts"].([]interface{})
	suite.Require().Len(alerts, 1)
	suite.True(alerts[0].(map[string]interface{})["is_active"].(bool))

	// Catalog stats reflect the single listing
	w = suite.request(http.MethodGet, "/v1/stats", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	response = suite.decode(w)
	stats := response["data"].(map[string]interface{})
	suite.Equal(float64(1), stats["total_products"])
	suite.Equal(float64(1), stats["total_deals"])
}

func (suite *RouterTestSuite) TestProductListPagination() {
	w := suite.request(http.MethodGet, "/v1/products?page=1&per_page=5", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("5", w.Header().Get("X-Per-Page"))
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

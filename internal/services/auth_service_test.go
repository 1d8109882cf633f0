// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/dealradar/dealradar-backend/internal/config"
	"github.com/dealradar/dealradar-backend/internal/models"
	"github.com/dealradar/dealradar-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	suite.service = NewAuthService(suite.db, cfg)
}

func (suite *AuthServiceTestSuite) TestRegister() {
	resp, err := suite.service.Register(&RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
	})
	suite.NoError(err)
	suite.Equal("new@example.com", resp.User.Email)
	suite.Equal(models.UserTypeUser, resp.User.UserType)
	suite.NotEmpty(resp.AccessToken)
	suite.NotEmpty(resp.RefreshToken)
	suite.Equal("Bearer", resp.TokenType)
	suite.Equal(3600, resp.ExpiresIn)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	suite.NoError(err)
	suite.Equal(resp.User.ID.String(), claims.UserID)
}

func (suite *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	_, err := suite.service.Register(&RegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
	})
	suite.NoError(err)

	_, err = suite.service.Register(&RegisterRequest{
		Email:    "taken@example.com",
		Password: "different456",
	})
	suite.ErrorIs(err, ErrEmailTaken)
}

func (suite *AuthServiceTestSuite) TestRegisterWeakPassword() {
	_, err := suite.service.Register(&RegisterRequest{
		Email:    "weak@example.com",
		Password: "short",
	})
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestLogin() {
	_, err := suite.service.Register(&RegisterRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	suite.NoError(err)

	resp, err := suite.service.Login(&LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	suite.NoError(err)
	suite.Equal("login@example.com", resp.User.Email)
	suite.NotEmpty(resp.AccessToken)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	_, err := suite.service.Register(&RegisterRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	suite.NoError(err)

	_, err = suite.service.Login(&LoginRequest{
		Email:    "login@example.com",
		Password: "wrongpass99",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginUnknownEmail() {
	_, err := suite.service.Login(&LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestRefreshToken() {
	registered, err := suite.service.Register(&RegisterRequest{
		Email:    "refresh@example.com",
		Password: "password123",
	})
	suite.NoError(err)

	resp, err := suite.service.RefreshToken(registered.RefreshToken)
	suite.NoError(err)
	suite.Equal(registered.User.ID, resp.User.ID)
	suite.NotEmpty(resp.AccessToken)
}

func (suite *AuthServiceTestSuite) TestRefreshTokenGarbage() {
	_, err := suite.service.RefreshToken("not-a-token")
	suite.ErrorIs(err, utils.ErrTokenMalformed)
}

func (suite *AuthServiceTestSuite) TestGetProfile() {
	registered, err := suite.service.Register(&RegisterRequest{
		Email:    "profile@example.com",
		Password: "password123",
	})
	suite.NoError(err)

	user, err := suite.service.GetProfile(registered.User.ID)
	suite.NoError(err)
	suite.Equal("profile@example.com", user.Email)

	_, err = suite.service.GetProfile(uuid.New())
	suite.ErrorIs(err, ErrUserNotFound)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/handlers"
	"github.com/SscSPs/remesas_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockCachedRates struct {
	mock.Mock
}

func (m *MockCachedRates) GetCurrentRate(ctx context.Context) (*domain.RateQuote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

func (m *MockCachedRates) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type uncachedRates struct{}

func (uncachedRates) GetCurrentRate(context.Context) (*domain.RateQuote, error) {
	return &domain.RateQuote{SaleRate: decimal.NewFromInt(4000)}, nil
}

type RateHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	rates     *MockCachedRates
	jwtSecret string
}

func (suite *RateHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.rates = new(MockCachedRates)
	suite.router = suite.newRouter(suite.rates)
}

func (suite *RateHandlerTestSuite) newRouter(rates portssvc.RateProvider) *gin.Engine {
	r := gin.New()
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, "remesas-test"))
	handlers.RegisterRateRoutes(v1, rates)
	return r
}

func (suite *RateHandlerTestSuite) token(userID string, role domain.Role) string {
	claims := middleware.ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "remesas-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: string(role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *RateHandlerTestSuite) post(router *gin.Engine, url, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (suite *RateHandlerTestSuite) TestRefresh_DropsCacheThenServesFreshRate() {
	fresh := &domain.RateQuote{SaleRate: decimal.RequireFromString("4125.5")}
	suite.rates.On("Invalidate", mock.Anything).Return(nil).Once()
	suite.rates.On("GetCurrentRate", mock.Anything).Return(fresh, nil).Once()

	w := suite.post(suite.router, "/api/v1/rates/refresh", suite.token("admin-co", domain.RoleAdminColombia))

	suite.Equal(http.StatusOK, w.Code)
	var got domain.RateQuote
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.SaleRate.Equal(fresh.SaleRate))
	suite.rates.AssertExpectations(suite.T())
}

func (suite *RateHandlerTestSuite) TestRefresh_SellersForbidden() {
	w := suite.post(suite.router, "/api/v1/rates/refresh", suite.token("seller-1", domain.RoleSeller))

	suite.Equal(http.StatusForbidden, w.Code)
	suite.rates.AssertNotCalled(suite.T(), "Invalidate", mock.Anything)
}

func (suite *RateHandlerTestSuite) TestRefresh_CacheFailureIsServerError() {
	suite.rates.On("Invalidate", mock.Anything).Return(errors.New("redis: connection refused")).Once()

	w := suite.post(suite.router, "/api/v1/rates/refresh", suite.token("admin-ve", domain.RoleAdminVenezuela))

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.rates.AssertNotCalled(suite.T(), "GetCurrentRate", mock.Anything)
}

func (suite *RateHandlerTestSuite) TestRefresh_NotRegisteredWithoutCache() {
	router := suite.newRouter(uncachedRates{})

	w := suite.post(router, "/api/v1/rates/refresh", suite.token("admin-co", domain.RoleAdminColombia))

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestRateHandler(t *testing.T) {
	suite.Run(t, new(RateHandlerTestSuite))
}

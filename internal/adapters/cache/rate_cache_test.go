package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/go-redis/redismock/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRateReader struct {
	mock.Mock
}

func (m *mockRateReader) FindCurrentRate(ctx context.Context) (*domain.RateQuote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

func sampleQuote() *domain.RateQuote {
	return &domain.RateQuote{
		SaleRate: decimal.RequireFromString("0.0125"),
		AsOf:     time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetCurrentRate_CacheHit(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(mockRateReader)
	payload, err := json.Marshal(sampleQuote())
	require.NoError(t, err)

	rmock.ExpectGet(CurrentRateKey).SetVal(string(payload))

	provider := NewRateProvider(repo, rdb, time.Minute)
	quote, err := provider.GetCurrentRate(context.Background())

	require.NoError(t, err)
	assert.True(t, quote.SaleRate.Equal(decimal.RequireFromString("0.0125")))
	repo.AssertNotCalled(t, "FindCurrentRate", mock.Anything)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestGetCurrentRate_CacheMissLoadsAndStores(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(mockRateReader)
	quote := sampleQuote()
	payload, err := json.Marshal(quote)
	require.NoError(t, err)

	rmock.ExpectGet(CurrentRateKey).RedisNil()
	rmock.ExpectSet(CurrentRateKey, string(payload), time.Minute).SetVal("OK")
	repo.On("FindCurrentRate", mock.Anything).Return(quote, nil).Once()

	provider := NewRateProvider(repo, rdb, time.Minute)
	got, err := provider.GetCurrentRate(context.Background())

	require.NoError(t, err)
	assert.Equal(t, quote, got)
	repo.AssertExpectations(t)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestGetCurrentRate_RedisDownFallsBack(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(mockRateReader)
	quote := sampleQuote()
	payload, _ := json.Marshal(quote)

	rmock.ExpectGet(CurrentRateKey).SetErr(errors.New("connection refused"))
	rmock.ExpectSet(CurrentRateKey, string(payload), time.Minute).SetErr(errors.New("connection refused"))
	repo.On("FindCurrentRate", mock.Anything).Return(quote, nil).Once()

	provider := NewRateProvider(repo, rdb, time.Minute)
	got, err := provider.GetCurrentRate(context.Background())

	require.NoError(t, err)
	assert.Equal(t, quote, got)
	repo.AssertExpectations(t)
}

func TestGetCurrentRate_NoRatePublished(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(mockRateReader)

	rmock.ExpectGet(CurrentRateKey).RedisNil()
	repo.On("FindCurrentRate", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	provider := NewRateProvider(repo, rdb, time.Minute)
	_, err := provider.GetCurrentRate(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestGetCurrentRate_WithoutRedis(t *testing.T) {
	repo := new(mockRateReader)
	repo.On("FindCurrentRate", mock.Anything).Return(sampleQuote(), nil).Once()

	provider := NewRateProvider(repo, nil, time.Minute)
	_, err := provider.GetCurrentRate(context.Background())

	require.NoError(t, err)
	repo.AssertExpectations(t)
	assert.NoError(t, provider.Invalidate(context.Background()))
}

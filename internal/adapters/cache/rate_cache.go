package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/middleware"
	"github.com/go-redis/redis/v8"
)

// CurrentRateKey is the redis key holding the cached official rate.
const CurrentRateKey = "remesas:rates:current"

// RateProvider serves the official rate from redis, loading it from the rates table on a miss.
// A nil client disables caching.
type RateProvider struct {
	repo portsrepo.RateReader
	rdb  *redis.Client
	ttl  time.Duration
}

// NewRateProvider creates a cached rate provider.
func NewRateProvider(repo portsrepo.RateReader, rdb *redis.Client, ttl time.Duration) *RateProvider {
	return &RateProvider{repo: repo, rdb: rdb, ttl: ttl}
}

var _ portssvc.RateProvider = (*RateProvider)(nil)

// GetCurrentRate returns the official rate. Redis failures degrade to a database read.
func (p *RateProvider) GetCurrentRate(ctx context.Context) (*domain.RateQuote, error) {
	if p.rdb == nil {
		return p.repo.FindCurrentRate(ctx)
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	raw, err := p.rdb.Get(ctx, CurrentRateKey).Result()
	switch {
	case err == nil:
		var quote domain.RateQuote
		if jsonErr := json.Unmarshal([]byte(raw), &quote); jsonErr == nil {
			return &quote, nil
		}
		logger.WarnContext(ctx, "Discarding malformed cached rate", slog.String("key", CurrentRateKey))
	case !errors.Is(err, redis.Nil):
		logger.WarnContext(ctx, "Rate cache unavailable, reading from database", slog.String("error", err.Error()))
	}

	quote, err := p.repo.FindCurrentRate(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(quote)
	if err != nil {
		return quote, nil
	}
	if err := p.rdb.Set(ctx, CurrentRateKey, string(payload), p.ttl).Err(); err != nil {
		logger.WarnContext(ctx, "Failed to cache current rate", slog.String("error", err.Error()))
	}
	return quote, nil
}

// Invalidate drops the cached rate so the next read reloads it.
func (p *RateProvider) Invalidate(ctx context.Context) error {
	if p.rdb == nil {
		return nil
	}
	return p.rdb.Del(ctx, CurrentRateKey).Err()
}

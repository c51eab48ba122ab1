package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/config"
	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const flightsPrefix = "cache:flights:"

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

// RedisCache holds the public flight listings. Misses return nil without error.
type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(client *redis.Client, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetAirportOptions(ctx context.Context) (*domain.AirportOptions, error) {
	var opts domain.AirportOptions
	ok, err := c.get(ctx, airportsKey(), &opts)
	if err != nil || !ok {
		return nil, err
	}
	return &opts, nil
}

func (c *RedisCache) SetAirportOptions(ctx context.Context, opts domain.AirportOptions) error {
	return c.set(ctx, airportsKey(), opts)
}

// GetLiveSearch reports a hit separately so that cached empty results are kept.
func (c *RedisCache) GetLiveSearch(ctx context.Context, origin, destination, date string) ([]domain.Flight, bool, error) {
	var flights []domain.Flight
	ok, err := c.get(ctx, liveSearchKey(origin, destination, date), &flights)
	if err != nil || !ok {
		return nil, false, err
	}
	return flights, true, nil
}

func (c *RedisCache) SetLiveSearch(ctx context.Context, origin, destination, date string, flights []domain.Flight) error {
	return c.set(ctx, liveSearchKey(origin, destination, date), flights)
}

// InvalidateFlights drops every cached listing. Called after a flight is
// created or changes status.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, flightsPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.flightsTTL).Err()
}

func airportsKey() string {
	return flightsPrefix + "airports"
}

func liveSearchKey(origin, destination, date string) string {
	return fmt.Sprintf("%slive:%s|%s|%s", flightsPrefix, strings.ToLower(origin), strings.ToLower(destination), date)
}

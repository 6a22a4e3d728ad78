package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/schedule"
)

// CacheRepository is a read-through cache in front of the resolution engine.
// Resolved occurrences and the homepage series view are pure functions of the
// events and overrides, so they are safe to cache and cheap to invalidate
// whenever either changes.
type CacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheRepository(client *redis.Client, ttl time.Duration) *CacheRepository {
	return &CacheRepository{
		client: client,
		ttl:    ttl,
	}
}

const (
	seriesViewKey  = "series_view"
	eventKeyPrefix = "event:"
	pinsKeyPrefix  = "map_pins:"
)

func (r *CacheRepository) SetSeriesView(ctx context.Context, view *schedule.SeriesView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, seriesViewKey, data, r.ttl).Err()
}

// GetSeriesView returns nil on a miss.
func (r *CacheRepository) GetSeriesView(ctx context.Context) (*schedule.SeriesView, error) {
	data, err := r.client.Get(ctx, seriesViewKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var view schedule.SeriesView
	if err := json.Unmarshal([]byte(data), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *CacheRepository) SetEvent(ctx context.Context, event *entity.EventWithVenue) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, eventKeyPrefix+event.Slug, data, r.ttl).Err()
}

func (r *CacheRepository) GetEvent(ctx context.Context, slug string) (*entity.EventWithVenue, error) {
	data, err := r.client.Get(ctx, eventKeyPrefix+slug).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var event entity.EventWithVenue
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *CacheRepository) SetMapPins(ctx context.Context, window string, result *schedule.MapPinResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, pinsKeyPrefix+window, data, r.ttl).Err()
}

func (r *CacheRepository) GetMapPins(ctx context.Context, window string) (*schedule.MapPinResult, error) {
	data, err := r.client.Get(ctx, pinsKeyPrefix+window).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result schedule.MapPinResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InvalidateEvent drops the event entry plus the derived views that embed it.
func (r *CacheRepository) InvalidateEvent(ctx context.Context, slug string) error {
	if err := r.client.Del(ctx, eventKeyPrefix+slug, seriesViewKey).Err(); err != nil {
		return err
	}
	return r.invalidatePins(ctx)
}

// InvalidateViews drops the derived views without touching event entries.
func (r *CacheRepository) InvalidateViews(ctx context.Context) error {
	if err := r.client.Del(ctx, seriesViewKey).Err(); err != nil {
		return err
	}
	return r.invalidatePins(ctx)
}

func (r *CacheRepository) invalidatePins(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, pinsKeyPrefix+"*", 0).Iterator()
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
	return r.client.Del(ctx, keys...).Err()
}

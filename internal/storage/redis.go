package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"pastelsoft.com/medimap/internal/roster"
)

// rosterRedisKey is the single key the roster snapshot lives under.
const rosterRedisKey = "medimap:roster"

// Redis stores the roster snapshot as one JSON value.
type Redis struct {
	client *redis.Client
}

// NewRedis connects and pings the server.
func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("addr", addr).Msg("Redis connection created successfully")
	return &Redis{client: client}, nil
}

// Load implements Store. A missing key means a fresh install.
func (r *Redis) Load(ctx context.Context) ([]roster.Patient, error) {
	raw, err := r.client.Get(ctx, rosterRedisKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get roster key: %w", err)
	}

	var patients []roster.Patient
	if err := json.Unmarshal([]byte(raw), &patients); err != nil {
		return nil, fmt.Errorf("decode roster snapshot: %w", err)
	}
	return patients, nil
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, patients []roster.Patient) error {
	raw, err := json.Marshal(patients)
	if err != nil {
		return fmt.Errorf("encode roster snapshot: %w", err)
	}
	if err := r.client.Set(ctx, rosterRedisKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("set roster key: %w", err)
	}
	return nil
}

// Close implements Store.
func (r *Redis) Close() error {
	return r.client.Close()
}

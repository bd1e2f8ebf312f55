package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/benbeisheim/chess-backend/internal/model"
)

const keyPrefix = "chess:game:"

// RedisStore keeps each session's move list as a JSON value with a TTL that
// is refreshed on every save.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewRedisStore(ctx context.Context, addr string, ttl time.Duration, log *zap.SugaredLogger) (*RedisStore, error) {
	opts := &redis.Options{
		Addr: addr,
		DB:   0,
	}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}
	client := redis.NewClient(opts)

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	log.Infow("connected to redis", "addr", opts.Addr)
	return &RedisStore{client: client, ttl: ttl, log: log}, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, records []model.MoveRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+id, data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) ([]model.MoveRecord, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var records []model.MoveRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return records, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

func (s *RedisStore) Close(context.Context) error {
	return s.client.Close()
}

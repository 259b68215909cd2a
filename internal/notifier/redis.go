package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisNotifier appends fetch events to a stream and publishes them on a channel.
type RedisNotifier struct {
	rdb     *redis.Client
	stream  string
	channel string
	maxLen  int64
}

// NewRedisNotifier connects to addr and verifies the connection.
func NewRedisNotifier(ctx context.Context, addr, password string, db int, stream, channel string) (*RedisNotifier, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if strings.TrimSpace(stream) == "" {
		stream = "finquery:fetches"
	}
	if strings.TrimSpace(channel) == "" {
		channel = stream + ":pub"
	}
	log.Info().Str("addr", addr).Int("db", db).Str("stream", stream).Msg("redis notifier connected")
	return &RedisNotifier{rdb: rdb, stream: stream, channel: channel, maxLen: 10000}, nil
}

func (r *RedisNotifier) NotifyFetched(ctx context.Context, evt *FetchEvent) error {
	payload, err := FormatFetchEvent(evt)
	if err != nil {
		return err
	}

	pipe := r.rdb.Pipeline()
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]any{
			"ticker":  evt.Ticker,
			"rows":    evt.Rows,
			"payload": payload,
		},
	})
	pipe.Publish(ctx, r.channel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish fetch event %s: %w", evt.Ticker, err)
	}
	return nil
}

func (r *RedisNotifier) Close() error {
	log.Info().Msg("closing redis notifier")
	return r.rdb.Close()
}

package analytics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPV       = "pv"
	keyUV       = "uv"
	keyPaths    = "path_hits"
	keyAccessIP = "access_ip:"

	// accessIPTTL keeps yesterday's set around for late readers.
	accessIPTTL = 48 * time.Hour
)

type RedisRecorder struct {
	client *redis.Client
	prefix string
}

func NewRedisRecorder(client *redis.Client, prefix string) *RedisRecorder {
	return &RedisRecorder{client: client, prefix: prefix}
}

func (r *RedisRecorder) key(name string) string {
	return r.prefix + name
}

func (r *RedisRecorder) Record(ctx context.Context, v Visit) error {
	ipKey := r.key(keyAccessIP + day(v.At))
	var added *redis.IntCmd
	_, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, r.key(keyPV))
		p.HIncrBy(ctx, r.key(keyPaths), v.Path, 1)
		added = p.SAdd(ctx, ipKey, v.IP)
		p.Expire(ctx, ipKey, accessIPTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	if added.Val() == 1 {
		if err := r.client.Incr(ctx, r.key(keyUV)).Err(); err != nil {
			return fmt.Errorf("record unique visitor: %w", err)
		}
	}
	return nil
}

func (r *RedisRecorder) Counts(ctx context.Context) (Counts, error) {
	pv, err := r.counter(ctx, keyPV)
	if err != nil {
		return Counts{}, err
	}
	uv, err := r.counter(ctx, keyUV)
	if err != nil {
		return Counts{}, err
	}
	raw, err := r.client.HGetAll(ctx, r.key(keyPaths)).Result()
	if err != nil {
		return Counts{}, fmt.Errorf("read path hits: %w", err)
	}
	paths := make(map[string]int64, len(raw))
	for path, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		paths[path] = n
	}
	return Counts{PV: pv, UV: uv, Paths: paths}, nil
}

func (r *RedisRecorder) counter(ctx context.Context, name string) (int64, error) {
	n, err := r.client.Get(ctx, r.key(name)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", name, err)
	}
	return n, nil
}

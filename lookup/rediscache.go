package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jplemma/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRedisKeyPrefix = "jplemmaWords"
	clearBatchSize        = 500
)

// RedisConf configures the shared resolution cache.
type RedisConf struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Password  string `yaml:"password" json:"password"`
	DB        int    `yaml:"db" json:"db"`
	KeyPrefix string `yaml:"keyPrefix" json:"keyPrefix"`
	TTLSecs   int    `yaml:"ttlSecs" json:"ttlSecs"`
}

// RedisCache keeps resolutions in Redis so several processes can share
// them. Values are stored as JSON under "<prefix>:<key>".
type RedisCache struct {
	c      *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to the server described by conf. The connection
// is lazy; the first command reports an unreachable server.
func NewRedisCache(conf RedisConf) *RedisCache {
	return NewRedisCacheFromClient(
		redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
			Password: conf.Password,
			DB:       conf.DB,
		}),
		conf.KeyPrefix,
		time.Duration(conf.TTLSecs)*time.Second,
	)
}

// NewRedisCacheFromClient uses an existing client. A zero ttl keeps
// entries until Clear.
func NewRedisCacheFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisCache{c: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(k CacheKey) string {
	return c.prefix + ":" + k.String()
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.c.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key CacheKey) (model.ResolvedWord, bool) {
	val, err := c.c.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return model.ResolvedWord{}, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("failed to read cached word")
		return model.ResolvedWord{}, false
	}
	var w model.ResolvedWord
	if err := json.Unmarshal([]byte(val), &w); err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("failed to decode cached word")
		return model.ResolvedWord{}, false
	}
	return w, true
}

func (c *RedisCache) Set(ctx context.Context, key CacheKey, w model.ResolvedWord) {
	data, err := json.Marshal(w)
	if err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("failed to encode word")
		return
	}
	if err := c.c.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("failed to cache word")
	}
}

// Clear deletes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.c.Scan(ctx, 0, c.prefix+":*", clearBatchSize).Iterator()
	batch := make([]string, 0, clearBatchSize)
	deleted := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.c.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to clear word cache: %w", err)
		}
		deleted += len(batch)
		batch = batch[:0]
		return nil
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan word cache: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}
	log.Debug().Int("keys", deleted).Str("prefix", c.prefix).Msg("word cache cleared")
	return nil
}

func (c *RedisCache) Close() error {
	return c.c.Close()
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/utils"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds configuration for the Redis-backed store.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	QuotaBytes int64
}

// writeIfWithinQuotaScript stores ARGV[2] under field ARGV[1] of the data hash
// unless the hash would grow beyond ARGV[3] bytes. Returns 1 on write, 0 when
// the quota would be exceeded.
var writeIfWithinQuotaScript = redis.NewScript(`
	local quota = tonumber(ARGV[3])
	if quota > 0 then
		local used = 0
		local all = redis.call("HGETALL", KEYS[1])
		for i = 1, #all, 2 do
			if all[i] ~= ARGV[1] then
				used = used + string.len(all[i]) + string.len(all[i + 1])
			end
		end
		if used + string.len(ARGV[1]) + string.len(ARGV[2]) > quota then
			return 0
		end
	end
	redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
	return 1
`)

// changeEvent is published on the change channel after every write
type changeEvent struct {
	Key    string `json:"key"`
	Writer string `json:"writer"`
}

// RedisStore implements Store on a Redis hash. Writes are published on a
// pub/sub channel so sessions sharing the prefix see each other's changes.
type RedisStore struct {
	client     *redis.Client
	ownsClient bool
	prefix     string
	quota      int64
	writer     string
	subs       *subscribers
	pubsub     *redis.PubSub
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewRedisStore connects to Redis and starts listening for changes.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	s, err := NewRedisStoreWithClient(client, cfg.KeyPrefix, cfg.QuotaBytes)
	if err != nil {
		client.Close()
		return nil, err
	}
	s.ownsClient = true
	return s, nil
}

// NewRedisStoreWithClient builds a store on an existing client. The client is
// not closed by Close.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string, quotaBytes int64) (*RedisStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if keyPrefix == "" {
		keyPrefix = "antique-catalog:store"
	}

	s := &RedisStore{
		client: client,
		prefix: keyPrefix,
		quota:  quotaBytes,
		writer: utils.GenerateID(),
		subs:   newSubscribers(),
	}

	s.pubsub = client.Subscribe(ctx, s.changeChannel())
	if _, err := s.pubsub.Receive(ctx); err != nil {
		s.pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", s.changeChannel(), err)
	}

	s.wg.Add(1)
	go s.listen()

	utils.Info("redis store started", map[string]any{"prefix": keyPrefix, "quota_bytes": quotaBytes})
	return s, nil
}

func (s *RedisStore) dataKey() string {
	return s.prefix + ":data"
}

func (s *RedisStore) changeChannel() string {
	return s.prefix + ":changes"
}

// Read returns the value stored under key
func (s *RedisStore) Read(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.HGet(ctx, s.dataKey(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read %s: %w", key, catalogerrors.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

// Write stores value under key atomically with the quota check, then
// announces the change
func (s *RedisStore) Write(ctx context.Context, key string, value []byte) error {
	written, err := writeIfWithinQuotaScript.Run(ctx, s.client, []string{s.dataKey()}, key, value, s.quota).Int64()
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if written == 0 {
		return fmt.Errorf("write %s (%d bytes, quota %d): %w", key, len(key)+len(value), s.quota, catalogerrors.ErrQuotaExceeded)
	}

	event, err := json.Marshal(changeEvent{Key: key, Writer: s.writer})
	if err != nil {
		return err
	}
	if err := s.client.Publish(ctx, s.changeChannel(), event).Err(); err != nil {
		// the value is stored; other sessions just miss this notification
		utils.Warn("redis store: change publish failed", map[string]any{"key": key, "error": err.Error()})
	}
	return nil
}

// OnExternalChange registers fn for writes to key by other sessions
func (s *RedisStore) OnExternalChange(key string, fn ChangeFunc) func() {
	return s.subs.add(key, fn)
}

func (s *RedisStore) listen() {
	defer s.wg.Done()

	for msg := range s.pubsub.Channel() {
		var event changeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			utils.Warn("redis store: malformed change event", map[string]any{"payload": msg.Payload, "error": err.Error()})
			continue
		}
		if event.Writer == s.writer || !s.subs.has(event.Key) {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		value, err := s.Read(ctx, event.Key)
		cancel()
		if err != nil {
			utils.Warn("redis store: reading changed key failed", map[string]any{"key": event.Key, "error": err.Error()})
			continue
		}
		s.subs.notify(event.Key, value)
	}
}

// Close stops the change listener and, if owned, the client
func (s *RedisStore) Close() error {
	var err error
	s.stopOnce.Do(func() {
		err = s.pubsub.Close()
		s.wg.Wait()
		if s.ownsClient {
			if cerr := s.client.Close(); err == nil {
				err = cerr
			}
		}
	})
	return err
}

var _ Store = (*RedisStore)(nil)

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 会话key的固定命名空间前缀
const keyPrefix = "session:"

// Store 会话存储接口
//
// 三种结果必须可区分：命中返回记录；缺失返回 (nil, nil)，
// 这是正常结果而非错误；后端或反序列化失败返回错误，
// 调用方（会话中间件）应将错误视为"无法恢复会话"降级为未认证请求，
// 绝不作为致命条件。
type Store interface {
	Read(ctx context.Context, id string) (*Record, error)
	Write(ctx context.Context, id string, rec *Record) error
	Destroy(ctx context.Context, id string) error
	Touch(ctx context.Context, id string, rec *Record) error
}

// RedisStore 基于Redis的会话存储
type RedisStore struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisStore 创建Redis会话存储
func NewRedisStore(client *redis.Client, defaultTTL time.Duration) *RedisStore {
	if defaultTTL <= 0 {
		defaultTTL = 7 * 24 * time.Hour
	}
	return &RedisStore{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

func (s *RedisStore) key(id string) string {
	return keyPrefix + id
}

// Read 读取会话记录，key不存在时返回 (nil, nil)
func (s *RedisStore) Read(ctx context.Context, id string) (*Record, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // 会话不存在，正常结果
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %q: %w", id, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("session: unmarshal %q: %w", id, err)
	}
	return &rec, nil
}

// Write 序列化并整体覆盖写入，过期时间由Cookie的MaxAge推导
//
// 无部分更新或合并语义，并发写同一会话时后完成者胜出。
func (s *RedisStore) Write(ctx context.Context, id string, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: marshal %q: %w", id, err)
	}

	ttl := rec.TTL(s.defaultTTL)
	if err := s.client.Set(ctx, s.key(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("session: write %q: %w", id, err)
	}
	return nil
}

// Destroy 删除会话，幂等：销毁不存在的会话不是错误
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("session: destroy %q: %w", id, err)
	}
	return nil
}

// Touch 重新持久化以刷新后端过期时间
func (s *RedisStore) Touch(ctx context.Context, id string, rec *Record) error {
	return s.Write(ctx, id, rec)
}

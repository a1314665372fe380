package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTTL 默认缓存有效期
const DefaultTTL = 60 * time.Second

// Item 缓存项
type Item struct {
	Value      interface{}
	Expiration int64 // Unix纳秒时间戳，0表示永不过期
}

// Expired 检查是否过期
func (item *Item) Expired() bool {
	if item.Expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > item.Expiration
}

// Cache 内存TTL缓存
//
// 用于对聚合统计等昂贵查询做进程内记忆化。绝对过期时间而非LRU：
// 目标是限制读多写少数据的陈旧程度，不是限制内存占用。
// 仅进程内共享，多进程部署时各自独立，无跨进程失效。
type Cache struct {
	items      map[string]*Item
	mu         sync.RWMutex
	defaultTTL time.Duration

	// 清理相关
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	closeOnce       sync.Once
}

// Option 缓存选项
type Option func(*Cache)

// WithDefaultTTL 设置默认有效期
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithCleanupInterval 设置定期清理周期，0表示不开启
func WithCleanupInterval(interval time.Duration) Option {
	return func(c *Cache) {
		c.cleanupInterval = interval
	}
}

// New 创建新的缓存实例
func New(opts ...Option) *Cache {
	c := &Cache{
		items:       make(map[string]*Item),
		defaultTTL:  DefaultTTL,
		stopCleanup: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cleanupInterval > 0 {
		go c.cleanupLoop()
	}

	return c
}

// cleanupLoop 定期清理过期项
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

// Get 获取缓存
//
// 仅当存在且未过期时返回值。查找时发现过期项会顺手删除，
// 过期后的重复读取不会再返回旧值。缺失是正常结果，不是错误。
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if item.Expired() {
		// 惰性清理：读到过期项即物理删除
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && cur.Expired() {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return item.Value, true
}

// Set 使用默认有效期设置缓存
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL 设置带有效期的缓存，无条件覆盖旧值
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = &Item{
		Value:      value,
		Expiration: exp,
	}
	c.mu.Unlock()
}

// Invalidate 删除单个缓存项，返回该项此前是否存在
func (c *Cache) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	if ok {
		delete(c.items, key)
	}
	return ok
}

// InvalidateByPattern 删除key包含指定子串的所有缓存项，返回删除数量
//
// 用于整族失效某一逻辑聚合（如某客户相关的全部统计），
// 调用方无需枚举具体key。
func (c *Cache) InvalidateByPattern(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key := range c.items {
		if strings.Contains(key, pattern) {
			delete(c.items, key)
			count++
		}
	}
	return count
}

// Clear 清空所有缓存
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]*Item)
	c.mu.Unlock()
}

// DeleteExpired 删除所有过期项
func (c *Cache) DeleteExpired() {
	now := time.Now().UnixNano()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.items {
		if item.Expiration > 0 && now > item.Expiration {
			delete(c.items, key)
		}
	}
}

// Count 获取缓存数量（含未被物理清理的过期项）
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close 关闭缓存（停止清理协程），可重复调用
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		if c.cleanupInterval > 0 {
			close(c.stopCleanup)
		}
	})
}

// GetOrCompute 获取缓存，不存在则计算并以默认有效期写入
func (c *Cache) GetOrCompute(key string, compute func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.Set(key, value)
	return value, nil
}

// BuildKey 确定性构造缓存key
//
// 参数名按字典序排序后以 name=value 形式用 "_" 连接，并冠以 prefix。
// 同一逻辑查询无论调用方以何种顺序组装参数，都映射到同一个key，
// 这是命中率正确性的前提。
func BuildKey(prefix string, params map[string]string) string {
	if len(params) == 0 {
		return prefix
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(prefix)
	for _, name := range names {
		b.WriteString("_")
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(params[name])
	}
	return b.String()
}

package cache

import (
	"sync"
	"time"
)

// 进程级缓存实例。业务侧优先通过依赖注入持有 *Cache，
// Global 仅作为处理器内的兜底入口。
var (
	globalCache *Cache
	globalOnce  sync.Once
)

// Global 获取全局缓存实例
func Global() *Cache {
	globalOnce.Do(func() {
		if globalCache == nil {
			globalCache = New(WithCleanupInterval(5 * time.Minute))
		}
	})
	return globalCache
}

// SetGlobal 注入全局缓存实例（需在首次 Global 调用前）
func SetGlobal(c *Cache) {
	globalCache = c
}

// Close 关闭全局缓存
func Close() {
	if globalCache != nil {
		globalCache.Close()
	}
}

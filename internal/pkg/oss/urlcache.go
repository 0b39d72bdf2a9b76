package oss

import (
	"sync"
	"time"
)

// SignedURLCache 签名 URL 缓存。生命周期归属 OSS 客户端，
// 过期条目由定时任务 Sweep 清理。
type SignedURLCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	url       string
	expiresAt time.Time
}

func NewSignedURLCache() *SignedURLCache {
	return &SignedURLCache{
		entries: make(map[string]cacheEntry),
	}
}

// Get 查询缓存，过期条目视为未命中
func (c *SignedURLCache) Get(objectKey string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[objectKey]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.url, true
}

// Set 写入缓存
func (c *SignedURLCache) Set(objectKey, url string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[objectKey] = cacheEntry{
		url:       url,
		expiresAt: time.Now().Add(ttl),
	}
}

// Sweep 删除在 now 之前过期的条目，返回清理数量
func (c *SignedURLCache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cleaned := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			cleaned++
		}
	}
	return cleaned
}

// Len 当前缓存条目数
func (c *SignedURLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

package oss

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignedURLCache_GetSet(t *testing.T) {
	cache := NewSignedURLCache()

	_, ok := cache.Get("proofs/1.jpg")
	assert.False(t, ok)

	cache.Set("proofs/1.jpg", "https://oss.example.com/proofs/1.jpg?sig=abc", time.Minute)

	url, ok := cache.Get("proofs/1.jpg")
	assert.True(t, ok)
	assert.Equal(t, "https://oss.example.com/proofs/1.jpg?sig=abc", url)
}

func TestSignedURLCache_ExpiredEntryIsMiss(t *testing.T) {
	cache := NewSignedURLCache()

	cache.Set("proofs/2.jpg", "https://oss.example.com/proofs/2.jpg?sig=old", -time.Second)

	_, ok := cache.Get("proofs/2.jpg")
	assert.False(t, ok)
}

func TestSignedURLCache_SetOverwrites(t *testing.T) {
	cache := NewSignedURLCache()

	cache.Set("proofs/3.jpg", "https://oss.example.com/old", time.Minute)
	cache.Set("proofs/3.jpg", "https://oss.example.com/new", time.Minute)

	url, ok := cache.Get("proofs/3.jpg")
	assert.True(t, ok)
	assert.Equal(t, "https://oss.example.com/new", url)
	assert.Equal(t, 1, cache.Len())
}

func TestSignedURLCache_Sweep(t *testing.T) {
	cache := NewSignedURLCache()

	cache.Set("fresh", "https://oss.example.com/fresh", time.Hour)
	cache.Set("stale1", "https://oss.example.com/stale1", time.Minute)
	cache.Set("stale2", "https://oss.example.com/stale2", time.Minute)

	assert.Equal(t, 3, cache.Len())

	swept := cache.Sweep(time.Now().Add(30 * time.Minute))
	assert.Equal(t, 2, swept)
	assert.Equal(t, 1, cache.Len())

	_, ok := cache.Get("fresh")
	assert.True(t, ok)
	_, ok = cache.Get("stale1")
	assert.False(t, ok)
}

func TestSignedURLCache_SweepEmpty(t *testing.T) {
	cache := NewSignedURLCache()

	swept := cache.Sweep(time.Now())
	assert.Equal(t, 0, swept)
}

func TestSignedURLCache_ConcurrentAccess(t *testing.T) {
	cache := NewSignedURLCache()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("proofs/%d.jpg", n)
			cache.Set(key, "https://oss.example.com/"+key, time.Minute)
			cache.Get(key)
			cache.Len()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, cache.Len())
}

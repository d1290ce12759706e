// Package dedup provides a bounded seen-set for long-running stream mode,
// where the unbounded per-run set would grow without limit.
package dedup

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU remembers the most recently alerted quadkeys. When full, the least
// recently seen key is forgotten and a later strike on that tile alerts again.
// It implements domain.SeenSet.
type LRU struct {
	cache *lru.Cache[string, struct{}]
}

// NewLRU creates an LRU holding at most size keys.
func NewLRU(size int) (*LRU, error) {
	c, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("create dedup cache: %w", err)
	}
	return &LRU{cache: c}, nil
}

// Contains reports whether key is remembered and marks it recently used, so an
// active storm cell keeps its tile suppressed.
func (l *LRU) Contains(key string) bool {
	_, ok := l.cache.Get(key)
	return ok
}

func (l *LRU) Add(key string) {
	l.cache.Add(key, struct{}{})
}

// Len returns the number of remembered keys.
func (l *LRU) Len() int {
	return l.cache.Len()
}

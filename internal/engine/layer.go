package engine

import (
	"sync/atomic"
	"time"
)

// LayerClock hands out strictly increasing layer keys.
// Keys only need relative order; gaps are fine.
type LayerClock interface {
	Next() int64
}

// CounterClock is a deterministic LayerClock backed by an atomic counter.
type CounterClock struct {
	n atomic.Int64
}

// NewCounterClock returns a counter whose first key is start+1.
func NewCounterClock(start int64) *CounterClock {
	c := &CounterClock{}
	c.n.Store(start)
	return c
}

// Next returns the next key.
func (c *CounterClock) Next() int64 {
	return c.n.Add(1)
}

// WallClock derives keys from the current time in milliseconds. Two calls
// within the same millisecond still yield increasing keys.
type WallClock struct {
	last atomic.Int64
	now  func() time.Time
}

// NewWallClock returns a clock reading time.Now.
func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

// Next returns max(now in ms, previous key + 1).
func (c *WallClock) Next() int64 {
	for {
		prev := c.last.Load()
		next := c.now().UnixMilli()
		if next <= prev {
			next = prev + 1
		}
		if c.last.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// Compare orders stickers by layer key: negative when a is below b,
// positive when above, zero on equal keys.
func Compare(a, b *Sticker) int {
	switch {
	case a.layerKey > b.layerKey:
		return 1
	case a.layerKey < b.layerKey:
		return -1
	default:
		return 0
	}
}

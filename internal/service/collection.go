// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"sync"
	"time"
)

// Collection caches the result of a loader function and guards refreshes
// with a monotonically increasing generation counter: a load result whose
// generation no longer matches the latest issued request is discarded, so
// a slow response can never overwrite a newer one.
type Collection[T any] struct {
	load func(ctx context.Context) ([]T, error)

	mu         sync.Mutex
	generation uint64
	items      []T
	loadedAt   time.Time
	loaded     bool
}

// NewCollection creates a collection around the given loader.
func NewCollection[T any](load func(ctx context.Context) ([]T, error)) *Collection[T] {
	return &Collection[T]{load: load}
}

// Refresh runs the loader and installs the result unless a newer refresh
// was issued while this one was in flight. It returns the freshly loaded
// items either way, so the caller that asked still gets its answer.
func (c *Collection[T]) Refresh(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.generation {
		c.items = items
		c.loadedAt = time.Now()
		c.loaded = true
	}
	return items, nil
}

// Items returns the cached items, the load time, and whether a load has
// completed yet. The returned slice must be treated as read-only.
func (c *Collection[T]) Items() ([]T, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items, c.loadedAt, c.loaded
}

// Invalidate drops the cached items and supersedes any in-flight refresh.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.items = nil
	c.loaded = false
}

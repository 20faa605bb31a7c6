// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"time"
)

// New creates the configured cache backend. redisURL empty selects the
// memory backend.
func New(redisURL, prefix string, defaultTTL time.Duration) (Cacher, error) {
	if redisURL != "" {
		c, err := NewRedisCache(redisURL, prefix, defaultTTL)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return c, nil
	}
	return NewMemoryCache(defaultTTL), nil
}

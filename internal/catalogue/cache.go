// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogue

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// titleCache keeps recently read titles. Titles are never updated or deleted by
// this service, so entries only expire.
type titleCache struct {
	cache *gocache.Cache
}

func newTitleCache(ttl time.Duration) *titleCache {
	if ttl <= 0 {
		return &titleCache{}
	}
	return &titleCache{cache: gocache.New(ttl, 2*ttl)}
}

func (c *titleCache) get(id string) (*Title, bool) {
	if c.cache == nil {
		return nil, false
	}
	value, ok := c.cache.Get(id)
	if !ok {
		return nil, false
	}
	title := value.(Title)
	return &title, true
}

func (c *titleCache) set(title *Title) {
	if c.cache == nil || title == nil {
		return
	}
	c.cache.SetDefault(title.ID, *title)
}

// Package handcache keeps the most recent hand result per room in
// memory. It is a bounded cache, not a replay log; evicted results are
// gone.
package handcache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

type Cache struct {
	results *lru.Cache
}

func New(size int) (*Cache, error) {
	results, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize hand result cache")
	}
	return &Cache{results: results}, nil
}

func (c *Cache) Add(roomID string, result interface{}) {
	c.results.Add(roomID, result)
}

func (c *Cache) Get(roomID string) (interface{}, bool) {
	return c.results.Get(roomID)
}

func (c *Cache) Remove(roomID string) {
	c.results.Remove(roomID)
}

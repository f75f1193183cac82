package cache

import "context"

type noopCache struct{}

// NewNoopCache returns a RedisCache that stores nothing; every Get is a miss.
func NewNoopCache() RedisCache {
	return noopCache{}
}

func (noopCache) Save(context.Context, string, any, int) error { return nil }

func (noopCache) Get(context.Context, string, any) error { return Nil }

func (noopCache) Delete(context.Context, string) error { return nil }

func (noopCache) Clear(context.Context, string) error { return nil }

// Increment reports every call as the first in its window.
func (noopCache) Increment(context.Context, string, int) (int64, error) { return 1, nil }

func (noopCache) Bump(context.Context, string) (int64, error) { return 1, nil }

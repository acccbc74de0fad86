package domain

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrStoreFull   = errors.New("key-value store is full")
)

// Key namespaces sharing one KeyValueStore. They must stay disjoint.
const (
	CachePrefix = "bible_cache_v1_"
	StatePrefix = "lectio_v1_"

	StatsKey = StatePrefix + "stats"
	PlansKey = StatePrefix + "plans"
)

type KeyValueStore interface {
	// Get returns ErrKeyNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set may fail with ErrStoreFull or any backend error.
	Set(ctx context.Context, key, value string) error

	// Remove deletes a key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys lists every key starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	Ping(ctx context.Context) error
}

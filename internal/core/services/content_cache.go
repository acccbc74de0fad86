package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ContentCache is a read-through cache of chapter text over a key-value
// store. Every key it writes starts with prefix.
type ContentCache struct {
	store  domain.KeyValueStore
	prefix string
}

func NewContentCache(store domain.KeyValueStore) *ContentCache {
	return &ContentCache{
		store:  store,
		prefix: domain.CachePrefix,
	}
}

func (c *ContentCache) Key(book string, chapter int, version domain.BibleVersion) string {
	key := fmt.Sprintf("%s%s_%s_%d", c.prefix, version, book, chapter)
	return whitespaceRun.ReplaceAllString(key, "_")
}

// Get returns the cached verses for a chapter, calling fetch only on a miss
// or a corrupt entry. A failed write never fails the call: it triggers a
// blanket eviction of the namespace and the fresh payload is still returned.
func (c *ContentCache) Get(ctx context.Context, book string, chapter int, version domain.BibleVersion, fetch domain.ChapterFetcher) ([]domain.Verse, error) {
	key := c.Key(book, chapter, version)

	if verses, ok := c.lookup(ctx, key); ok {
		return verses, nil
	}

	verses, err := fetch(ctx, book, chapter, version)
	if err != nil {
		return nil, err
	}

	if len(verses) > 0 {
		c.persist(ctx, key, verses)
	}

	return verses, nil
}

// Cached reports whether a valid entry exists without fetching.
func (c *ContentCache) Cached(ctx context.Context, book string, chapter int, version domain.BibleVersion) bool {
	_, ok := c.lookup(ctx, c.Key(book, chapter, version))
	return ok
}

func (c *ContentCache) lookup(ctx context.Context, key string) ([]domain.Verse, bool) {
	val, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			log.Printf("[CACHE] Read error for %s: %v", key, err)
		}
		return nil, false
	}

	var verses []domain.Verse
	if err := json.Unmarshal([]byte(val), &verses); err == nil && len(verses) > 0 && domain.ValidVerses(verses) {
		return verses, true
	}

	log.Printf("[CACHE] Corrupted entry %s, cleaning up key", key)
	if err := c.store.Remove(ctx, key); err != nil {
		log.Printf("[CACHE] Failed to remove corrupted entry %s: %v", key, err)
	}
	return nil, false
}

func (c *ContentCache) persist(ctx context.Context, key string, verses []domain.Verse) {
	data, err := json.Marshal(verses)
	if err != nil {
		log.Printf("[CACHE] Failed to encode %s: %v", key, err)
		return
	}

	if err := c.store.Set(ctx, key, string(data)); err != nil {
		log.Printf("[CACHE] Set failed for %s (%v), evicting namespace", key, err)
		removed, clearErr := c.Clear(ctx)
		if clearErr != nil {
			log.Printf("[CACHE] Eviction incomplete after %d keys: %v", removed, clearErr)
			return
		}
		log.Printf("[CACHE] Evicted %d entries", removed)
	}
}

// Clear removes every entry in the cache namespace and nothing else. It
// keeps going past individual failures and returns the first one.
func (c *ContentCache) Clear(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, c.prefix)
	if err != nil {
		return 0, fmt.Errorf("list cache keys: %w", err)
	}

	removed := 0
	var firstErr error
	for _, k := range keys {
		if !strings.HasPrefix(k, c.prefix) {
			continue
		}
		if err := c.store.Remove(ctx, k); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	return removed, firstErr
}

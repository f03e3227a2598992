package dict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lookup chains a primary and a fallback dictionary behind an optional
// redis cache. The fallback is tried whenever the primary errors,
// including not-found.
type Lookup struct {
	primary  Client
	fallback Client
	cache    *redis.Client // nil disables caching
	cacheTTL time.Duration
}

func NewLookup(primary, fallback Client, cache *redis.Client, cacheTTL time.Duration) *Lookup {
	return &Lookup{
		primary:  primary,
		fallback: fallback,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (l *Lookup) Lookup(ctx context.Context, word string) (*Entry, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, errors.New("word required")
	}

	if cached := l.fromCache(ctx, word); cached != nil {
		return cached, nil
	}

	entry, primaryErr := l.primary.Lookup(ctx, word)
	if primaryErr != nil {
		if !errors.Is(primaryErr, ErrNotFound) {
			slog.Warn("primary dictionary failed, trying fallback", "word", word, "error", primaryErr)
		}
		var fallbackErr error
		entry, fallbackErr = l.fallback.Lookup(ctx, word)
		if fallbackErr != nil {
			if errors.Is(primaryErr, ErrNotFound) && errors.Is(fallbackErr, ErrNotFound) {
				return nil, fmt.Errorf("%q: %w", word, ErrNotFound)
			}
			return nil, fmt.Errorf("all dictionaries failed: %v; %w", primaryErr, fallbackErr)
		}
	}

	l.toCache(ctx, word, entry)
	return entry, nil
}

func cacheKey(word string) string { return "dict:" + word }

func (l *Lookup) fromCache(ctx context.Context, word string) *Entry {
	if l.cache == nil {
		return nil
	}
	val, err := l.cache.Get(ctx, cacheKey(word)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("dictionary cache get failed", "word", word, "error", err)
		}
		return nil
	}
	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil
	}
	return &entry
}

func (l *Lookup) toCache(ctx context.Context, word string, entry *Entry) {
	if l.cache == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := l.cache.Set(ctx, cacheKey(word), data, l.cacheTTL).Err(); err != nil {
		slog.Warn("dictionary cache set failed", "word", word, "error", err)
	}
}

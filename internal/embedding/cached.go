// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skillbridge/internal/cache"
	"github.com/tomtom215/skillbridge/internal/metrics"
)

// CachedProvider serves vectors from an in-process LRU, then an optional
// persistent Store, and only sends the remaining distinct texts to the
// wrapped provider.
type CachedProvider struct {
	next   Provider
	memory *cache.LRU[[]float32]
	store  Store
	logger zerolog.Logger
}

// NewCachedProvider wraps next. store may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCachedProvider(next Provider, size int, ttl time.Duration, store Store, logger zerolog.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedProvider{
		next:   next,
		memory: cache.NewLRU[[]float32](size, ttl),
		store:  store,
		logger: logger.With().Str("component", "embedding_cache").Logger(),
	}
}

func (c *CachedProvider) Name() string   { return c.next.Name() }
func (c *CachedProvider) Dimension() int { return c.next.Dimension() }

// Stats returns the in-process tier counters.
func (c *CachedProvider) Stats() cache.Stats {
	return c.memory.Stats()
}

// Key returns the cache key of a text for this provider.
func (c *CachedProvider) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.next.Name() + ":" + strconv.Itoa(c.next.Dimension()) + ":" + hex.EncodeToString(sum[:])
}

// Embed fills each position from the fastest tier that has it.
func (c *CachedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	// pending maps a key to the positions still waiting for it.
	pending := make(map[string][]int)
	var order []string

	memoryHits := 0
	for i, text := range texts {
		keys[i] = c.Key(text)
		if v, ok := c.memory.Get(keys[i]); ok {
			out[i] = v
			memoryHits++
			continue
		}
		if _, seen := pending[keys[i]]; !seen {
			order = append(order, keys[i])
		}
		pending[keys[i]] = append(pending[keys[i]], i)
	}
	if memoryHits > 0 {
		metrics.RecordEmbeddingCacheHit("memory", memoryHits)
	}
	if len(order) == 0 {
		return out, nil
	}

	if c.store != nil {
		found, err := c.store.GetMany(order)
		if err != nil {
			c.logger.Warn().Err(err).Msg("persistent embedding cache read failed")
		} else if len(found) > 0 {
			remaining := order[:0]
			for _, key := range order {
				vec, ok := found[key]
				if !ok || len(vec) != c.next.Dimension() {
					remaining = append(remaining, key)
					continue
				}
				c.fill(out, pending[key], key, vec)
			}
			metrics.RecordEmbeddingCacheHit("badger", len(order)-len(remaining))
			order = remaining
		}
	}
	if len(order) == 0 {
		return out, nil
	}

	missTexts := make([]string, len(order))
	for i, key := range order {
		missTexts[i] = texts[pending[key][0]]
	}
	metrics.RecordEmbeddingCacheMiss(len(missTexts))

	vecs, err := c.next.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("provider %s returned %d vectors for %d texts", c.next.Name(), len(vecs), len(missTexts))
	}

	fresh := make(map[string][]float32, len(order))
	for i, key := range order {
		c.fill(out, pending[key], key, vecs[i])
		fresh[key] = vecs[i]
	}

	if c.store != nil {
		if err := c.store.PutMany(fresh); err != nil {
			c.logger.Warn().Err(err).Int("vectors", len(fresh)).Msg("persistent embedding cache write failed")
		}
	}
	return out, nil
}

func (c *CachedProvider) fill(out [][]float32, positions []int, key string, vec []float32) {
	for _, p := range positions {
		out[p] = vec
	}
	c.memory.Add(key, vec)
}

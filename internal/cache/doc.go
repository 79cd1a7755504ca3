// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

/*
Package cache provides a thread-safe, capacity-bounded LRU cache with TTL
expiration.

It backs the in-process tier of the embedding cache: query texts repeat
heavily across ranking calls (the same skill lists, the same industries),
so their vectors are kept in memory in front of the persistent badger tier.

# Usage Example

	vectors := cache.NewLRU[[]float32](4096, time.Hour)
	vectors.Add(key, vec)
	if v, ok := vectors.Get(key); ok {
	    return v
	}

# Thread Safety

All methods are safe for concurrent use. Get takes the write lock because it
updates recency order.
*/
package cache

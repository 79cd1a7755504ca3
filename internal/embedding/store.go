// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package embedding

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Store is a persistent vector cache keyed by content hash.
type Store interface {
	// GetMany returns the vectors found for keys. Missing keys are absent
	// from the map.
	GetMany(keys []string) (map[string][]float32, error)

	// PutMany stores vectors by key.
	PutMany(vectors map[string][]float32) error
}

// vectorKeyPrefix namespaces vector entries in the badger keyspace.
const vectorKeyPrefix = "vec:"

// BadgerStore persists vectors in BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerStore opens or creates a store at path. The path ":memory:"
// opens an in-memory database.
func OpenBadgerStore(path string, ttl time.Duration) (*BadgerStore, error) {
	var opts badger.Options
	if path == ":memory:" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open embedding store: %w", err)
	}
	return &BadgerStore{db: db, ttl: ttl}, nil
}

// GetMany reads keys in a single read transaction.
func (s *BadgerStore) GetMany(keys []string) (map[string][]float32, error) {
	found := make(map[string][]float32, len(keys))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, err := txn.Get([]byte(vectorKeyPrefix + key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			var vec []float32
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &vec)
			}); err != nil {
				return fmt.Errorf("decode vector %s: %w", key, err)
			}
			found[key] = vec
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read embedding store: %w", err)
	}
	return found, nil
}

// PutMany writes vectors with a write batch so large catalogs do not hit
// transaction size limits.
func (s *BadgerStore) PutMany(vectors map[string][]float32) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for key, vec := range vectors {
		data, err := json.Marshal(vec)
		if err != nil {
			return fmt.Errorf("encode vector %s: %w", key, err)
		}
		entry := badger.NewEntry([]byte(vectorKeyPrefix+key), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		if err := wb.SetEntry(entry); err != nil {
			return fmt.Errorf("write embedding store: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush embedding store: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

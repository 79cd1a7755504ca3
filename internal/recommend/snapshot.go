// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultEmbedBatchSize is used when SnapshotBuilder.BatchSize is unset.
const DefaultEmbedBatchSize = 64

// Snapshot is an immutable view of one catalog. It is built once and then
// only read.
type Snapshot struct {
	Catalog  string    `json:"catalog"`
	Version  int64     `json:"version"`
	BuiltAt  time.Time `json:"built_at"`
	Provider string    `json:"provider,omitempty"`

	// Dimension is the embedding length shared by every vector.
	Dimension int `json:"dimension"`

	Candidates []Candidate   `json:"-"`
	Histories  map[int][]int `json:"-"`

	// Vectors maps a candidate text field to embeddings aligned with
	// Candidates. A candidate with empty text has a nil vector.
	Vectors map[string][][]float32 `json:"-"`

	index map[int]int
}

// NewSnapshot indexes an already embedded catalog. Candidate IDs must be
// unique.
func NewSnapshot(catalog string, version int64, cat *Catalog, vectors map[string][][]float32, dim int) (*Snapshot, error) {
	if cat == nil {
		cat = &Catalog{}
	}
	index := make(map[int]int, len(cat.Candidates))
	for i := range cat.Candidates {
		id := cat.Candidates[i].ID
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("catalog %s: duplicate candidate id %d", catalog, id)
		}
		index[id] = i
	}
	for field, vecs := range vectors {
		if len(vecs) != len(cat.Candidates) {
			return nil, fmt.Errorf("catalog %s: field %s has %d vectors for %d candidates",
				catalog, field, len(vecs), len(cat.Candidates))
		}
	}

	histories := cat.Histories
	if histories == nil {
		histories = map[int][]int{}
	}

	return &Snapshot{
		Catalog:    catalog,
		Version:    version,
		BuiltAt:    time.Now().UTC(),
		Dimension:  dim,
		Candidates: cat.Candidates,
		Histories:  histories,
		Vectors:    vectors,
		index:      index,
	}, nil
}

// Len returns the number of candidates.
func (s *Snapshot) Len() int {
	return len(s.Candidates)
}

// IndexOf returns the catalog position of a candidate ID.
func (s *Snapshot) IndexOf(id int) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Actors returns the number of actors with a history.
func (s *Snapshot) Actors() int {
	return len(s.Histories)
}

// SnapshotBuilder loads a catalog and embeds its text fields.
type SnapshotBuilder struct {
	Catalog  string
	Source   CatalogSource
	Embedder Embedder

	// Fields are the candidate text fields to embed.
	Fields []string

	BatchSize int
}

// Build produces a complete snapshot with the given version.
func (b *SnapshotBuilder) Build(ctx context.Context, version int64) (*Snapshot, error) {
	if b.Source == nil {
		return nil, fmt.Errorf("catalog %s: no source configured", b.Catalog)
	}

	cat, err := b.Source.Load(ctx)
	if err != nil {
		return nil, &ProviderError{Provider: b.Source.Name(), Err: err}
	}

	vectors := make(map[string][][]float32, len(b.Fields))
	dim := 0
	if b.Embedder != nil {
		dim = b.Embedder.Dimension()
	}

	for _, field := range b.Fields {
		if b.Embedder == nil {
			return nil, fmt.Errorf("catalog %s: field %s needs an embedder", b.Catalog, field)
		}
		vecs, err := b.embedField(ctx, cat.Candidates, field, dim)
		if err != nil {
			return nil, err
		}
		vectors[field] = vecs
	}

	snap, err := NewSnapshot(b.Catalog, version, cat, vectors, dim)
	if err != nil {
		return nil, err
	}
	if b.Embedder != nil {
		snap.Provider = b.Embedder.Name()
	}
	return snap, nil
}

func (b *SnapshotBuilder) embedField(ctx context.Context, cands []Candidate, field string, dim int) ([][]float32, error) {
	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultEmbedBatchSize
	}

	vecs := make([][]float32, len(cands))
	texts := make([]string, 0, batchSize)
	positions := make([]int, 0, batchSize)

	flush := func() error {
		if len(texts) == 0 {
			return nil
		}
		out, err := b.Embedder.Embed(ctx, texts)
		if err != nil {
			return &ProviderError{Provider: b.Embedder.Name(), Err: err}
		}
		if len(out) != len(texts) {
			return &ProviderError{
				Provider: b.Embedder.Name(),
				Err:      fmt.Errorf("returned %d vectors for %d texts", len(out), len(texts)),
			}
		}
		for i, v := range out {
			if dim > 0 && len(v) != dim {
				return fmt.Errorf("%w: field %s candidate %d has %d, want %d",
					ErrDimensionMismatch, field, cands[positions[i]].ID, len(v), dim)
			}
			vecs[positions[i]] = v
		}
		texts = texts[:0]
		positions = positions[:0]
		return nil
	}

	for i := range cands {
		text := cands[i].TextField(field)
		if text == "" {
			continue
		}
		texts = append(texts, text)
		positions = append(positions, i)
		if len(texts) == batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return vecs, nil
}

// SnapshotLoader hands out the current snapshot.
type SnapshotLoader interface {
	Load() (*Snapshot, error)
}

// SnapshotStore publishes snapshots behind an atomic pointer. Refresh
// builds the replacement completely before swapping it in. Concurrent
// refreshes are serialized.
type SnapshotStore struct {
	builder *SnapshotBuilder
	logger  zerolog.Logger

	current   atomic.Pointer[Snapshot]
	version   atomic.Int64
	refreshMu sync.Mutex

	hooksMu sync.RWMutex
	hooks   []func(*Snapshot)
}

// NewSnapshotStore creates an empty store. Load fails with ErrNoSnapshot
// until the first Refresh or Set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotStore(builder *SnapshotBuilder, logger zerolog.Logger) *SnapshotStore {
	name := ""
	if builder != nil {
		name = builder.Catalog
	}
	return &SnapshotStore{
		builder: builder,
		logger:  logger.With().Str("component", "snapshot").Str("catalog", name).Logger(),
	}
}

// Name returns the catalog name.
func (s *SnapshotStore) Name() string {
	if s.builder == nil {
		return ""
	}
	return s.builder.Catalog
}

// Load returns the current snapshot.
func (s *SnapshotStore) Load() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Set publishes an externally built snapshot. Its version is replaced by
// the store's next version.
func (s *SnapshotStore) Set(snap *Snapshot) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	snap.Version = s.version.Add(1)
	s.publish(snap)
}

// Refresh rebuilds the snapshot from the builder's source. On failure the
// previous snapshot stays current.
func (s *SnapshotStore) Refresh(ctx context.Context) (*Snapshot, error) {
	if s.builder == nil {
		return nil, fmt.Errorf("snapshot store has no builder")
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	next := s.version.Load() + 1
	snap, err := s.builder.Build(ctx, next)
	if err != nil {
		s.logger.Warn().Err(err).Int64("version", next).Msg("snapshot refresh failed")
		return nil, fmt.Errorf("build snapshot %s: %w", s.builder.Catalog, err)
	}
	s.version.Store(next)
	s.publish(snap)

	s.logger.Info().
		Int64("version", snap.Version).
		Int("candidates", snap.Len()).
		Int("actors", snap.Actors()).
		Dur("duration", time.Since(start)).
		Msg("snapshot refreshed")
	return snap, nil
}

// OnRefresh registers fn to run after every published snapshot.
func (s *SnapshotStore) OnRefresh(fn func(*Snapshot)) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *SnapshotStore) publish(snap *Snapshot) {
	s.current.Store(snap)

	s.hooksMu.RLock()
	hooks := s.hooks
	s.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(snap)
	}
}

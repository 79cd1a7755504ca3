// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/skillbridge/internal/metrics"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

// Store is a named snapshot store. *recommend.SnapshotStore implements it.
type Store interface {
	Name() string
	Load() (*recommend.Snapshot, error)
	Refresh(ctx context.Context) (*recommend.Snapshot, error)
}

// Status describes the current snapshot of one catalog.
type Status struct {
	Name       string    `json:"name"`
	Loaded     bool      `json:"loaded"`
	Version    int64     `json:"version,omitempty"`
	BuiltAt    time.Time `json:"built_at,omitempty"`
	Candidates int       `json:"candidates"`
	Actors     int       `json:"actors"`
	Dimension  int       `json:"dimension,omitempty"`
	Provider   string    `json:"provider,omitempty"`
}

// Registry holds the served catalogs by name. It is built once at startup
// and only read afterwards.
type Registry struct {
	stores map[string]Store
	names  []string
}

// NewRegistry indexes stores by name. Names must be unique and non-empty.
func NewRegistry(stores ...Store) (*Registry, error) {
	r := &Registry{stores: make(map[string]Store, len(stores))}
	for _, s := range stores {
		name := s.Name()
		if name == "" {
			return nil, fmt.Errorf("catalog store without a name")
		}
		if _, dup := r.stores[name]; dup {
			return nil, fmt.Errorf("duplicate catalog %q", name)
		}
		r.stores[name] = s
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Names returns the catalog names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Get returns the named store.
func (r *Registry) Get(name string) (Store, bool) {
	s, ok := r.stores[name]
	return s, ok
}

// Refresh rebuilds one catalog and records the outcome.
func (r *Registry) Refresh(ctx context.Context, name string) (*recommend.Snapshot, error) {
	s, ok := r.stores[name]
	if !ok {
		return nil, fmt.Errorf("catalog %q not registered", name)
	}
	start := time.Now()
	snap, err := s.Refresh(ctx)
	metrics.RecordCatalogRefresh(name, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	metrics.SetCatalogSnapshot(name, snap.Version, snap.Len())
	return snap, nil
}

// RefreshAll rebuilds every catalog in name order and returns the first
// error. A failed catalog keeps its previous snapshot.
func (r *Registry) RefreshAll(ctx context.Context) error {
	var first error
	for _, name := range r.names {
		if _, err := r.Refresh(ctx, name); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Status reports one catalog.
func (r *Registry) Status(name string) (Status, bool) {
	s, ok := r.stores[name]
	if !ok {
		return Status{}, false
	}
	st := Status{Name: name}
	snap, err := s.Load()
	if err != nil {
		return st, true
	}
	st.Loaded = true
	st.Version = snap.Version
	st.BuiltAt = snap.BuiltAt
	st.Candidates = snap.Len()
	st.Actors = snap.Actors()
	st.Dimension = snap.Dimension
	st.Provider = snap.Provider
	return st, true
}

// Statuses reports every catalog in name order.
func (r *Registry) Statuses() []Status {
	out := make([]Status, 0, len(r.names))
	for _, name := range r.names {
		st, _ := r.Status(name)
		out = append(out, st)
	}
	return out
}

// Ready reports whether every catalog has a snapshot.
func (r *Registry) Ready() bool {
	for _, s := range r.stores {
		if _, err := s.Load(); err != nil {
			return false
		}
	}
	return true
}

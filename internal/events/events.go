// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/skillbridge/internal/fraud"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

// SchemaVersion is stamped on every event. Bump it on breaking payload
// changes.
const SchemaVersion = 1

const (
	TopicCatalogRefreshed = "catalog.refreshed"
	TopicFraudAssessed    = "fraud.assessed"
	TopicRankingServed    = "ranking.served"
)

// Topics lists every topic the bus produces.
var Topics = []string{TopicCatalogRefreshed, TopicFraudAssessed, TopicRankingServed}

// Header carries the fields shared by all events.
type Header struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func newHeader(correlationID string, now time.Time) Header {
	return Header{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		CorrelationID: correlationID,
		Timestamp:     now.UTC(),
	}
}

// CatalogRefreshed is published after a snapshot swap.
type CatalogRefreshed struct {
	Header
	Catalog    string    `json:"catalog"`
	Version    int64     `json:"version"`
	Candidates int       `json:"candidates"`
	Actors     int       `json:"actors"`
	Dimension  int       `json:"dimension"`
	Provider   string    `json:"provider,omitempty"`
	BuiltAt    time.Time `json:"built_at"`
}

// NewCatalogRefreshed describes snap.
func NewCatalogRefreshed(snap *recommend.Snapshot, now time.Time) *CatalogRefreshed {
	return &CatalogRefreshed{
		Header:     newHeader("", now),
		Catalog:    snap.Catalog,
		Version:    snap.Version,
		Candidates: snap.Len(),
		Actors:     snap.Actors(),
		Dimension:  snap.Dimension,
		Provider:   snap.Provider,
		BuiltAt:    snap.BuiltAt,
	}
}

// FraudAssessed carries a non-normal assessment.
type FraudAssessed struct {
	Header
	Assessment *fraud.Assessment `json:"assessment"`
}

// RankedItem is one entry of a served ranking.
type RankedItem struct {
	ID       int     `json:"id"`
	Score    float64 `json:"score"`
	Eligible bool    `json:"eligible"`
}

// RankingServed records what an actor was shown. It is the feedback
// stream a future engagement model would train on.
type RankingServed struct {
	Header
	Profile         string       `json:"profile"`
	ActorID         int          `json:"actor_id"`
	SnapshotVersion int64        `json:"snapshot_version"`
	Items           []RankedItem `json:"items"`
	SignalsUsed     []string     `json:"signals_used"`
	LatencyMS       int64        `json:"latency_ms"`
}

// NewRankingServed summarizes res.
func NewRankingServed(profile string, actorID int, res *recommend.Result, correlationID string, now time.Time) *RankingServed {
	items := make([]RankedItem, 0, len(res.Items))
	for i := range res.Items {
		sc := &res.Items[i]
		items = append(items, RankedItem{ID: sc.Candidate.ID, Score: sc.Score, Eligible: sc.Eligible})
	}
	return &RankingServed{
		Header:          newHeader(correlationID, now),
		Profile:         profile,
		ActorID:         actorID,
		SnapshotVersion: res.SnapshotVersion,
		Items:           items,
		SignalsUsed:     res.SignalsUsed,
		LatencyMS:       res.LatencyMS,
	}
}

// Marshal encodes an event payload.
func Marshal(event interface{}) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes an event payload into out.
func Unmarshal(data []byte, out interface{}) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}
	return nil
}
